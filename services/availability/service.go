package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"slotfinder/models"
	"slotfinder/services/directory"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLookahead is how many days past today a search covers when the
// caller gives no dates.
const DefaultLookahead = 3

// DefaultMaxRangeDays caps how many days one search may span when
// MaxRangeDays is unset.
const DefaultMaxRangeDays = 31

// DefaultAvailabilityService implements AvailabilityService.
type DefaultAvailabilityService struct {
	Resolver     ServiceResolver
	Directory    RosterProvider
	Tokens       TokenProvider
	Aggregator   *Aggregator
	Recorder     Recorder
	Location     *time.Location
	LocationID   string
	Exhaustive   bool
	// MaxRangeDays bounds the searched range; 0 means DefaultMaxRangeDays.
	MaxRangeDays int
	Logger       *zap.Logger
	Now          func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now().In(s.loc())
	}
	return time.Now().In(s.loc())
}

func (s *DefaultAvailabilityService) maxRangeDays() int {
	if s.MaxRangeDays <= 0 {
		return DefaultMaxRangeDays
	}
	return s.MaxRangeDays
}

func (s *DefaultAvailabilityService) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// request is a validated Query.
type request struct {
	serviceIDs []string
	dates      models.DateRange
	pref       models.TimePreference
	locationID string
}

func (s *DefaultAvailabilityService) validate(q Query) (request, error) {
	if len(q.Services) == 0 {
		return request{}, invalid("services array required with at least 1 service")
	}
	ids, unknown := s.Resolver.ResolveAll(q.Services)
	if len(unknown) > 0 {
		return request{}, invalid("Invalid service name(s) provided: %s", strings.Join(unknown, ", "))
	}

	pref, err := parsePreference(q.TimePreference)
	if err != nil {
		return request{}, err
	}
	dates, err := s.parseDates(q)
	if err != nil {
		return request{}, err
	}

	locationID := q.LocationID
	if locationID == "" {
		locationID = s.LocationID
	}
	return request{serviceIDs: ids, dates: dates, pref: pref, locationID: locationID}, nil
}

func parsePreference(p string) (models.TimePreference, error) {
	switch models.TimePreference(strings.ToLower(strings.TrimSpace(p))) {
	case "", models.PreferAny:
		return models.PreferAny, nil
	case models.PreferMorning:
		return models.PreferMorning, nil
	case models.PreferAfternoon:
		return models.PreferAfternoon, nil
	}
	return "", invalid("time_preference must be one of morning, afternoon, any")
}

func (s *DefaultAvailabilityService) parseDate(v string) (time.Time, error) {
	d, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(v), s.loc())
	if err != nil {
		return time.Time{}, invalid("invalid date %q, expected YYYY-MM-DD", v)
	}
	return d, nil
}

// parseDates resolves specific_date, then an explicit range, then the default
// lookahead from today.
func (s *DefaultAvailabilityService) parseDates(q Query) (models.DateRange, error) {
	switch {
	case q.SpecificDate != "":
		d, err := s.parseDate(q.SpecificDate)
		if err != nil {
			return models.DateRange{}, err
		}
		return models.DateRange{Start: d, End: d}, nil
	case q.DateStart != "" && q.DateEnd != "":
		start, err := s.parseDate(q.DateStart)
		if err != nil {
			return models.DateRange{}, err
		}
		end, err := s.parseDate(q.DateEnd)
		if err != nil {
			return models.DateRange{}, err
		}
		r := models.DateRange{Start: start, End: end}
		if limit := s.maxRangeDays(); r.DayCount() > limit {
			return models.DateRange{}, invalid("date range spans %d days, at most %d allowed", r.DayCount(), limit)
		}
		return r, nil
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc())
	return models.DateRange{Start: today, End: today.AddDate(0, 0, DefaultLookahead)}, nil
}

// prepare validates and acquires the token and roster every mode needs.
func (s *DefaultAvailabilityService) prepare(ctx context.Context, q Query) (request, string, []models.Provider, error) {
	req, err := s.validate(q)
	if err != nil {
		return request{}, "", nil, err
	}
	token, err := s.Tokens.Token(ctx)
	if err != nil {
		return request{}, "", nil, fmt.Errorf("acquire upstream token: %w", err)
	}
	roster, err := s.Directory.Active(ctx)
	if err != nil {
		return request{}, "", nil, fmt.Errorf("load roster: %w", err)
	}
	return req, token, roster, nil
}

func (s *DefaultAvailabilityService) Roster(ctx context.Context) ([]models.Provider, error) {
	return s.Directory.Active(ctx)
}

// FindConcurrent matches every guest to a distinct provider at one instant.
func (s *DefaultAvailabilityService) FindConcurrent(ctx context.Context, q Query) (*ConcurrentOutcome, error) {
	began := time.Now()
	req, token, roster, err := s.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	var preferred string
	if strings.TrimSpace(q.PreferredProvider) != "" {
		p, ok := directory.Find(roster, q.PreferredProvider)
		if !ok {
			return nil, &ValidationError{
				Message: fmt.Sprintf("Unknown preferred stylist %q", q.PreferredProvider),
				Hint:    directory.Names(roster),
			}
		}
		preferred = p.ID
	}

	s.Logger.Info("availability: finding concurrent slots",
		zap.Int("guests", len(req.serviceIDs)),
		zap.Strings("services", req.serviceIDs),
		zap.String("from", req.dates.Start.Format(models.DateLayout)),
		zap.String("to", req.dates.End.Format(models.DateLayout)),
		zap.Int("stylists", len(roster)))

	ix := s.Aggregator.Aggregate(ctx, ScanRequest{
		Token:      token,
		LocationID: req.locationID,
		Providers:  roster,
		ServiceIDs: req.serviceIDs,
		Dates:      req.dates,
	})
	matches := MatchConcurrent(ix, len(req.serviceIDs), ConcurrentOptions{
		PreferredProvider: preferred,
		TimePreference:    req.pref,
		Exhaustive:        s.Exhaustive,
	})

	s.Logger.Info("availability: concurrent search done", zap.Int("instants", ix.Len()), zap.Int("matches", len(matches)))
	s.record(ctx, q, "concurrent", req, preferred, len(matches), began)
	return &ConcurrentOutcome{Dates: req.dates, GuestCount: len(req.serviceIDs), Matches: matches}, nil
}

// FindGroup reports per-service availability and pairing options across providers.
func (s *DefaultAvailabilityService) FindGroup(ctx context.Context, q Query) (*GroupOutcome, error) {
	began := time.Now()
	req, token, roster, err := s.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("availability: finding group slots",
		zap.Strings("services", q.Services),
		zap.Int("stylists", len(roster)))

	perService := s.Aggregator.ScanByService(ctx, ScanRequest{
		Token:      token,
		LocationID: req.locationID,
		Providers:  roster,
		ServiceIDs: req.serviceIDs,
		Dates:      req.dates,
	})
	lists, sameTime, backToBack := MatchGroup(perService, req.pref)

	s.Logger.Info("availability: group search done", zap.Int("sameTime", len(sameTime)), zap.Int("backToBack", len(backToBack)))
	s.record(ctx, q, "group", req, "", len(sameTime)+len(backToBack), began)
	return &GroupOutcome{
		Dates:      req.dates,
		Services:   s.describe(q.Services, req.serviceIDs, lists),
		SameTime:   sameTime,
		BackToBack: backToBack,
	}, nil
}

// FindStaggered pairs services back to back within one named provider's schedule.
func (s *DefaultAvailabilityService) FindStaggered(ctx context.Context, q Query) (*StaggeredOutcome, error) {
	began := time.Now()
	if strings.TrimSpace(q.Provider) == "" {
		return nil, invalid("stylist is required")
	}
	if len(q.Services) < 2 {
		return nil, invalid("services array required with at least 2 services for a single stylist")
	}
	req, token, roster, err := s.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	provider, ok := directory.Find(roster, q.Provider)
	if !ok {
		return nil, &ValidationError{
			Message: fmt.Sprintf("Unknown stylist %q", q.Provider),
			Hint:    directory.Names(roster),
		}
	}

	s.Logger.Info("availability: finding staggered slots",
		zap.String("stylist", provider.DisplayName()),
		zap.Strings("services", q.Services))

	perService := s.Aggregator.ScanByService(ctx, ScanRequest{
		Token:      token,
		LocationID: req.locationID,
		Providers:  []models.Provider{provider},
		ServiceIDs: req.serviceIDs,
		Dates:      req.dates,
	})
	lists, pairs := MatchStaggered(perService, req.pref)

	s.record(ctx, q, "staggered", req, provider.ID, len(pairs), began)
	return &StaggeredOutcome{
		Dates:      req.dates,
		Provider:   provider,
		Services:   s.describe(q.Services, req.serviceIDs, lists),
		BackToBack: pairs,
	}, nil
}

// describe labels each per-service list with the caller's token and the catalog name.
func (s *DefaultAvailabilityService) describe(tokens, ids []string, lists [][]models.Slot) []models.ServiceAvailability {
	out := make([]models.ServiceAvailability, len(ids))
	for i, id := range ids {
		name := s.Resolver.Name(id)
		if name == "" {
			name = strings.ReplaceAll(strings.ToLower(tokens[i]), "_", " ")
		}
		out[i] = models.ServiceAvailability{ServiceID: id, ServiceName: name, Slots: lists[i]}
	}
	return out
}

func (s *DefaultAvailabilityService) record(ctx context.Context, q Query, mode string, req request, provider string, results int, began time.Time) {
	if s.Recorder == nil {
		return
	}
	rec := models.SearchRecord{
		ID:         uuid.New().String(),
		RequestID:  q.RequestID,
		Mode:       mode,
		LocationID: req.locationID,
		ServiceIDs: req.serviceIDs,
		Provider:   provider,
		DateStart:  req.dates.Start.Format(models.DateLayout),
		DateEnd:    req.dates.End.Format(models.DateLayout),
		Found:      results > 0,
		Results:    results,
		DurationMs: time.Since(began).Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if err := s.Recorder.Record(ctx, rec); err != nil {
		s.Logger.Warn("availability: failed to record search", zap.String("mode", mode), zap.Error(err))
	}
}
