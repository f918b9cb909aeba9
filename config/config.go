package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// ServiceAlias describes one bookable service and the tokens callers may use for it.
type ServiceAlias struct {
	ID      string   `mapstructure:"id"`
	Name    string   `mapstructure:"name"`
	Aliases []string `mapstructure:"aliases"`
}

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	APIJWTSecret      string `mapstructure:"API_JWT_SECRET"`

	// Upstream booking platform.
	AuthURL          string        `mapstructure:"UPSTREAM_AUTH_URL"`
	APIURL           string        `mapstructure:"UPSTREAM_API_URL"`
	APIURLV2         string        `mapstructure:"UPSTREAM_API_URL_V2"`
	ClientID         string        `mapstructure:"UPSTREAM_CLIENT_ID"`
	ClientSecret     string        `mapstructure:"UPSTREAM_CLIENT_SECRET"`
	TenantID         string        `mapstructure:"UPSTREAM_TENANT_ID"`
	LocationID       string        `mapstructure:"UPSTREAM_LOCATION_ID"`
	LocationName     string        `mapstructure:"UPSTREAM_LOCATION_NAME"`
	UpstreamTimeout  time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`
	UpstreamRPS      float64       `mapstructure:"UPSTREAM_RPS"`
	UpstreamBurst    int           `mapstructure:"UPSTREAM_BURST"`
	Timezone         string        `mapstructure:"TIMEZONE"`
	RosterTTL        time.Duration `mapstructure:"ROSTER_TTL"`
	RosterWarmEvery  string        `mapstructure:"ROSTER_WARM_EVERY"`
	RosterWarmEnable bool          `mapstructure:"ROSTER_WARM_ENABLED"`

	// Discovery window cover, in "HH:MM" and durations.
	ScanDayStart    string        `mapstructure:"SCAN_DAY_START"`
	ScanDayEnd      string        `mapstructure:"SCAN_DAY_END"`
	ScanWindowWidth time.Duration `mapstructure:"SCAN_WINDOW_WIDTH"`
	ScanWindowStep  time.Duration `mapstructure:"SCAN_WINDOW_STEP"`
	ScanParallelism int           `mapstructure:"SCAN_PARALLELISM"`
	ScanProviders   int           `mapstructure:"SCAN_PROVIDERS"`
	MatchExhaustive bool          `mapstructure:"MATCH_EXHAUSTIVE"`
	MaxRangeDays    int           `mapstructure:"MAX_RANGE_DAYS"`

	// Redis configuration.
	RedisEnabled  bool   `mapstructure:"REDIS_ENABLED"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Search audit sinks.
	RecordsEnabled bool     `mapstructure:"RECORDS_ENABLED"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DatabaseName   string   `mapstructure:"DATABASE_NAME"`
	KafkaBrokers   []string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic     string   `mapstructure:"KAFKA_TOPIC"`

	Services []ServiceAlias `mapstructure:"SERVICES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "3000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("API_JWT_SECRET", "")

	viper.SetDefault("UPSTREAM_AUTH_URL", "https://marketplace.meevo.com/oauth2/token")
	viper.SetDefault("UPSTREAM_API_URL", "https://na1pub.meevo.com/publicapi/v1")
	viper.SetDefault("UPSTREAM_API_URL_V2", "https://na1pub.meevo.com/publicapi/v2")
	viper.SetDefault("UPSTREAM_CLIENT_ID", "")
	viper.SetDefault("UPSTREAM_CLIENT_SECRET", "")
	viper.SetDefault("UPSTREAM_TENANT_ID", "")
	viper.SetDefault("UPSTREAM_LOCATION_ID", "")
	viper.SetDefault("UPSTREAM_LOCATION_NAME", "")
	viper.SetDefault("UPSTREAM_TIMEOUT", 10*time.Second)
	viper.SetDefault("UPSTREAM_RPS", 50.0)
	viper.SetDefault("UPSTREAM_BURST", 25)
	viper.SetDefault("TIMEZONE", "America/Phoenix")
	viper.SetDefault("ROSTER_TTL", time.Hour)
	viper.SetDefault("ROSTER_WARM_EVERY", "@every 30m")
	viper.SetDefault("ROSTER_WARM_ENABLED", false)

	viper.SetDefault("SCAN_DAY_START", "06:00")
	viper.SetDefault("SCAN_DAY_END", "22:00")
	viper.SetDefault("SCAN_WINDOW_WIDTH", 2*time.Hour)
	viper.SetDefault("SCAN_WINDOW_STEP", time.Hour)
	viper.SetDefault("SCAN_PARALLELISM", 16)
	viper.SetDefault("SCAN_PROVIDERS", 8)
	viper.SetDefault("MATCH_EXHAUSTIVE", true)
	viper.SetDefault("MAX_RANGE_DAYS", 31)

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)

	viper.SetDefault("RECORDS_ENABLED", false)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "slotfinder")
	viper.SetDefault("KAFKA_BROKERS", []string{})
	viper.SetDefault("KAFKA_TOPIC", "slotfinder.searches")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location returns the business time zone, falling back to UTC when the name is unknown.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
