package utils

import (
	"log"
	"sync"

	"slotfinder/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger. main hands it to every component that
// takes a *zap.Logger.
var (
	Logger     *zap.Logger
	loggerOnce sync.Once
)

// logLevel honours LOG_LEVEL, else info in production and debug elsewhere.
func logLevel(production bool, configured string) zapcore.Level {
	if configured != "" {
		if lvl, err := zapcore.ParseLevel(configured); err == nil {
			return lvl
		}
	}
	if production {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

func loggerConfig(production bool, level zapcore.Level) zap.Config {
	cfg := zap.NewDevelopmentConfig()
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg
}

// InitializeLogger builds the global logger. Every entry carries the
// environment and upstream location so logs from several salons can share a sink.
func InitializeLogger() {
	production := config.IsProduction()
	cfg := loggerConfig(production, logLevel(production, config.AppConfig.LogLevel))

	l, err := cfg.Build(zap.Fields(
		zap.String("env", config.GetEnv()),
		zap.String("location", config.AppConfig.LocationID),
	))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	Logger = l
	zap.ReplaceGlobals(l)
}

func GetLogger() *zap.Logger {
	loggerOnce.Do(func() {
		if Logger == nil {
			InitializeLogger()
		}
	})
	return Logger
}
