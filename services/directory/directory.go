// Package directory supplies the roster of bookable providers.
package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"slotfinder/models"
	"slotfinder/services/upstream"

	"go.uber.org/zap"
)

// ActiveState is the platform's object state for an active employee.
const ActiveState = 2026

var excludedNames = map[string]bool{"home": true, "training": true, "test": true}

// EmployeeLister fetches the raw employee list.
type EmployeeLister interface {
	ListEmployees(ctx context.Context, token string) ([]upstream.Employee, error)
}

// TokenProvider hands out upstream access tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

type Directory struct {
	source EmployeeLister
	tokens TokenProvider
	cache  RosterCache
	ttl    time.Duration
	logger *zap.Logger
}

func New(source EmployeeLister, tokens TokenProvider, cache RosterCache, ttl time.Duration, logger *zap.Logger) *Directory {
	if cache == nil {
		cache = NewMemoryRosterCache()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Directory{source: source, tokens: tokens, cache: cache, ttl: ttl, logger: logger}
}

// Active returns the cached roster, fetching it when the snapshot has expired.
func (d *Directory) Active(ctx context.Context) ([]models.Provider, error) {
	if roster, ok := d.cache.Get(ctx); ok {
		d.logger.Debug("directory: using cached roster", zap.Int("active", len(roster)))
		return roster, nil
	}
	return d.Refresh(ctx)
}

// Refresh always refetches. A failed fetch falls back to the stale snapshot,
// or an empty roster; only a missing access token is an error.
func (d *Directory) Refresh(ctx context.Context) ([]models.Provider, error) {
	token, err := d.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	d.logger.Info("directory: fetching active employees")
	employees, err := d.source.ListEmployees(ctx, token)
	if err != nil {
		d.logger.Error("directory: fetch failed", zap.Error(err))
		if stale, ok := d.cache.Stale(ctx); ok {
			return stale, nil
		}
		return []models.Provider{}, nil
	}

	roster := FilterActive(employees)
	if err := d.cache.Set(ctx, roster, d.ttl); err != nil {
		d.logger.Warn("directory: failed to store roster", zap.Error(err))
	}
	d.logger.Info("directory: cached roster", zap.Int("active", len(roster)))
	return roster, nil
}

// FilterActive keeps bookable employees and drops placeholder accounts.
func FilterActive(employees []upstream.Employee) []models.Provider {
	roster := make([]models.Provider, 0, len(employees))
	for _, e := range employees {
		if e.ObjectState != ActiveState {
			continue
		}
		if excludedNames[strings.ToLower(strings.TrimSpace(e.FirstName))] {
			continue
		}
		name := e.NickName
		if name == "" {
			name = e.FirstName
		}
		roster = append(roster, models.Provider{ID: e.ID, Name: name, Nickname: name})
	}
	return roster
}

// Find looks a provider up by id, name or nickname, ignoring case and spacing.
func Find(roster []models.Provider, ref string) (models.Provider, bool) {
	want := strings.ToLower(strings.Join(strings.Fields(ref), " "))
	if want == "" {
		return models.Provider{}, false
	}
	for _, p := range roster {
		if strings.EqualFold(p.ID, strings.TrimSpace(ref)) {
			return p, true
		}
	}
	for _, p := range roster {
		if strings.ToLower(p.Name) == want || strings.ToLower(p.Nickname) == want {
			return p, true
		}
	}
	return models.Provider{}, false
}

// Names lists roster display names, used as a hint when a lookup fails.
func Names(roster []models.Provider) []string {
	names := make([]string, 0, len(roster))
	for _, p := range roster {
		names = append(names, p.DisplayName())
	}
	return names
}

// Ping verifies the roster can be served.
func (d *Directory) Ping(ctx context.Context) error {
	if _, err := d.Active(ctx); err != nil {
		return fmt.Errorf("directory: %w", err)
	}
	return nil
}
