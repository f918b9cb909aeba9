package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slotfinder/config"
	"slotfinder/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeRosterRefresh = "roster:refresh"

// RosterRefresher reloads the active roster from the upstream platform.
type RosterRefresher interface {
	Refresh(ctx context.Context) ([]models.Provider, error)
}

// RosterRefreshPayload identifies the location whose roster is warmed.
type RosterRefreshPayload struct {
	LocationID string `json:"location_id"`
}

// NewRosterRefreshTask builds the periodic warm-up task.
func NewRosterRefreshTask(locationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(RosterRefreshPayload{LocationID: locationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRosterRefresh, payload, asynq.MaxRetry(2), asynq.Timeout(time.Minute)), nil
}

// RosterWorker owns the scheduler that enqueues warm-ups and the server that runs them.
type RosterWorker struct {
	scheduler *asynq.Scheduler
	server    *asynq.Server
	logger    *zap.Logger
}

// InitRosterWorker registers the periodic roster warm-up and starts both halves in the background.
func InitRosterWorker(refresher RosterRefresher, logger *zap.Logger) (*RosterWorker, error) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	task, err := NewRosterRefreshTask(config.AppConfig.LocationID)
	if err != nil {
		return nil, fmt.Errorf("cron: build roster task: %w", err)
	}

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: config.Location()})
	if _, err := scheduler.Register(config.AppConfig.RosterWarmEvery, task); err != nil {
		return nil, fmt.Errorf("cron: register roster task: %w", err)
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRosterRefresh, HandleRosterRefresh(refresher, logger))

	w := &RosterWorker{scheduler: scheduler, server: srv, logger: logger}

	logger.Info("[RosterWorker] starting async worker", zap.String("every", config.AppConfig.RosterWarmEvery))
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("cron: start worker: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return nil, fmt.Errorf("cron: start scheduler: %w", err)
	}
	return w, nil
}

// Shutdown stops scheduling and drains in-flight tasks.
func (w *RosterWorker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
	w.logger.Info("[RosterWorker] stopped")
}

// HandleRosterRefresh forces a roster reload.
func HandleRosterRefresh(refresher RosterRefresher, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p RosterRefreshPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Warn("[RosterHandler] invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		roster, err := refresher.Refresh(ctx)
		if err != nil {
			logger.Warn("[RosterHandler] roster refresh failed", zap.String("location", p.LocationID), zap.Error(err))
			return err
		}
		logger.Info("[RosterHandler] roster warmed", zap.String("location", p.LocationID), zap.Int("stylists", len(roster)))
		return nil
	}
}
