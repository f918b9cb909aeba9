package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotfinder/config"
	"slotfinder/cron"
	"slotfinder/database"
	recordsRepo "slotfinder/database/repository/records"
	"slotfinder/events"
	"slotfinder/handlers"
	"slotfinder/middleware"
	"slotfinder/models"
	"slotfinder/routes"
	"slotfinder/services/availability"
	"slotfinder/services/catalog"
	"slotfinder/services/directory"
	"slotfinder/services/upstream"
	"slotfinder/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Upstream platform.
	upstreamCfg := upstream.ConfigFromApp(cfg)
	upstreamCfg.Logger = logger
	client := upstream.NewClient(upstreamCfg)
	tokens := upstream.NewTokenSource(client, logger)

	healthDeps := map[string]utils.Pinger{"upstream": tokens}

	// Roster cache: shared through redis when enabled, per-process otherwise.
	var rosterCache directory.RosterCache = directory.NewMemoryRosterCache()
	if cfg.RedisEnabled {
		utils.InitCache()
		rosterCache = directory.NewRedisRosterCache(utils.GetCacheClient(), cfg.LocationID)
		healthDeps["redis"] = utils.RedisPinger{Client: utils.GetCacheClient()}
	}
	roster := directory.New(client, tokens, rosterCache, cfg.RosterTTL, logger)
	healthDeps["directory"] = roster

	windows, err := scanWindows(cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid discovery window cover: %v", err)
	}
	aggregator := &availability.Aggregator{
		Scanner:      availability.NewScanner(client, windows, cfg.ScanParallelism, logger),
		MaxProviders: cfg.ScanProviders,
	}

	// Search audit sinks.
	var sinks events.Fanout
	var searches *handlers.SearchesHandler
	if cfg.RecordsEnabled {
		database.InitDB()
		repo := recordsRepo.NewMongoRecordRepo()
		if err := recordsRepo.EnsureIndexes(repo); err != nil {
			logger.Warn("main: search record indexes not created", zap.Error(err))
		}
		sinks = append(sinks, repo)
		searches = handlers.NewSearchesHandler(repo)
		healthDeps["mongo"] = database.Pinger{}
	}
	var publisher *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, publisher)
	}

	resolver := catalog.NewResolver(cfg.Services)
	svc := &availability.DefaultAvailabilityService{
		Resolver:     resolver,
		Directory:    roster,
		Tokens:       tokens,
		Aggregator:   aggregator,
		Location:     config.Location(),
		LocationID:   cfg.LocationID,
		Exhaustive:   cfg.MatchExhaustive,
		MaxRangeDays: cfg.MaxRangeDays,
		Logger:       logger,
	}
	if len(sinks) > 0 {
		svc.Recorder = sinks
	}

	var worker *cron.RosterWorker
	if cfg.RosterWarmEnable && cfg.RedisEnabled {
		worker, err = cron.InitRosterWorker(roster, logger)
		if err != nil {
			logger.Warn("main: roster warm-up disabled", zap.Error(err))
		}
	}

	ctx, stopMonitor := context.WithCancel(context.Background())
	utils.StartHealthMonitor(ctx, healthDeps, time.Minute)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.PanicRecovery())
	router.Use(middleware.RequestLogger())

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewAvailabilityHandler(svc, resolver),
		searches,
		handlers.NewHealthHandler(cfg.Env, cfg.LocationName),
		cfg.APIJWTSecret,
		cfg.MaxRequestsPerMin,
	)
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "3000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	stopMonitor()
	if worker != nil {
		worker.Shutdown()
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Warn("main: kafka writer close failed", zap.Error(err))
		}
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// scanWindows builds the discovery cover from config.
func scanWindows(cfg config.Config) ([]models.DiscoveryWindow, error) {
	start, err := availability.ParseClock(cfg.ScanDayStart)
	if err != nil {
		return nil, err
	}
	end, err := availability.ParseClock(cfg.ScanDayEnd)
	if err != nil {
		return nil, err
	}
	return availability.BuildWindows(start, end, cfg.ScanWindowWidth, cfg.ScanWindowStep)
}
