package availability

import (
	"context"
	"sort"
	"strings"

	"slotfinder/models"
	"slotfinder/services/upstream"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OpeningsSource is the capped upstream discovery endpoint.
type OpeningsSource interface {
	ScanOpenings(ctx context.Context, token string, q upstream.OpeningsQuery) ([]upstream.Opening, error)
}

// Scanner reassembles a provider's complete schedule for one service out of
// many bounded window queries.
type Scanner struct {
	Source      OpeningsSource
	Windows     []models.DiscoveryWindow
	Parallelism int
	Logger      *zap.Logger
}

func NewScanner(source OpeningsSource, windows []models.DiscoveryWindow, parallelism int, logger *zap.Logger) *Scanner {
	if len(windows) == 0 {
		windows = DefaultWindows()
	}
	return &Scanner{Source: source, Windows: windows, Parallelism: parallelism, Logger: logger}
}

// ScanTarget names what one scan covers.
type ScanTarget struct {
	LocationID string
	Provider   models.Provider
	ServiceID  string
	Dates      models.DateRange
}

// Scan never fails: a window query that errors contributes no slots.
func (s *Scanner) Scan(ctx context.Context, token string, target ScanTarget) []models.Slot {
	days := target.Dates.Days()
	if len(days) == 0 {
		return []models.Slot{}
	}

	type query struct {
		day    string
		window models.DiscoveryWindow
	}
	queries := make([]query, 0, len(days)*len(s.Windows))
	for _, d := range days {
		for _, w := range s.Windows {
			queries = append(queries, query{day: d.Format(models.DateLayout), window: w})
		}
	}

	results := make([][]upstream.Opening, len(queries))
	var g errgroup.Group
	if s.Parallelism > 0 {
		g.SetLimit(s.Parallelism)
	}
	for i, q := range queries {
		i, q := i, q // per-iteration copies; go.mod targets go1.21 (pre-1.22 loopvar semantics)
		g.Go(func() error {
			openings, err := s.Source.ScanOpenings(ctx, token, upstream.OpeningsQuery{
				LocationID: target.LocationID,
				StartDate:  q.day,
				EndDate:    q.day,
				StartTime:  models.Clock(q.window.Start),
				EndTime:    models.Clock(q.window.End),
				EmployeeID: target.Provider.ID,
				ServiceID:  target.ServiceID,
			})
			if err != nil {
				s.Logger.Warn("scanner: window query failed",
					zap.String("provider", target.Provider.DisplayName()),
					zap.String("date", q.day),
					zap.String("window", q.window.String()),
					zap.Error(err))
				return nil
			}
			results[i] = openings
			return nil
		})
	}
	_ = g.Wait()

	return mergeOpenings(results, target)
}

// mergeOpenings flattens window results in query order, keeps the first
// occurrence of each (provider, service, start) and orders by start.
func mergeOpenings(results [][]upstream.Opening, target ScanTarget) []models.Slot {
	seen := make(map[models.SlotKey]bool)
	slots := []models.Slot{}
	for _, batch := range results {
		for _, o := range batch {
			serviceID := strings.ToLower(o.ServiceID)
			if serviceID == "" {
				serviceID = target.ServiceID
			}
			slot := models.Slot{
				ProviderID:   target.Provider.ID,
				ProviderName: target.Provider.DisplayName(),
				ServiceID:    serviceID,
				ServiceName:  o.ServiceName,
				Start:        o.Start,
				End:          o.End,
				Price:        o.Price,
			}
			if seen[slot.Key()] {
				continue
			}
			seen[slot.Key()] = true
			slots = append(slots, slot)
		}
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots
}
