package availability

import (
	"context"

	"slotfinder/models"
)

// AvailabilityService is the engine's request-level API.
type AvailabilityService interface {
	FindConcurrent(ctx context.Context, q Query) (*ConcurrentOutcome, error)
	FindGroup(ctx context.Context, q Query) (*GroupOutcome, error)
	FindStaggered(ctx context.Context, q Query) (*StaggeredOutcome, error)
	Roster(ctx context.Context) ([]models.Provider, error)
}

// RosterProvider supplies the active roster.
type RosterProvider interface {
	Active(ctx context.Context) ([]models.Provider, error)
}

// TokenProvider supplies upstream access tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ServiceResolver maps guest-facing tokens to service ids.
type ServiceResolver interface {
	ResolveAll(tokens []string) ([]string, []string)
	Name(id string) string
}

// Recorder receives an audit record after each search.
type Recorder interface {
	Record(ctx context.Context, rec models.SearchRecord) error
}

// Query is the caller's search input, shared by all modes.
type Query struct {
	RequestID      string
	Services       []string
	DateStart      string
	DateEnd        string
	SpecificDate   string
	TimePreference string
	// PreferredProvider is an id, name or nickname (concurrent mode).
	PreferredProvider string
	// Provider is the single named provider (staggered mode).
	Provider   string
	LocationID string
}

// ConcurrentOutcome is the concurrent-mode result.
type ConcurrentOutcome struct {
	Dates      models.DateRange
	GuestCount int
	Matches    []models.MatchedSlot
}

// GroupOutcome is the group-mode result.
type GroupOutcome struct {
	Dates      models.DateRange
	Services   []models.ServiceAvailability
	SameTime   []models.SlotPair
	BackToBack []models.SlotPair
}

// StaggeredOutcome is the same-provider result.
type StaggeredOutcome struct {
	Dates      models.DateRange
	Provider   models.Provider
	Services   []models.ServiceAvailability
	BackToBack []models.SlotPair
}
