package utils

import (
	"context"
	"sync"
	"time"
)

// Pinger is anything whose liveness can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Dependencies map[string]bool `json:"dependencies"`
	CheckedAt    time.Time       `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth probes every dependency once and stores the snapshot.
func CheckHealth(ctx context.Context, deps map[string]Pinger) HealthStatus {
	status := HealthStatus{Dependencies: make(map[string]bool, len(deps)), CheckedAt: time.Now()}
	for name, p := range deps {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		status.Dependencies[name] = p.Ping(pctx) == nil
		cancel()
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(ctx context.Context, deps map[string]Pinger, every time.Duration) {
	if len(deps) == 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		CheckHealth(ctx, deps)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, deps)
			}
		}
	}()
}
