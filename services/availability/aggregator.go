package availability

import (
	"context"

	"slotfinder/models"

	"github.com/sourcegraph/conc/iter"
)

// Aggregator fans the scanner out over the roster and collects results.
// It does not filter or rank.
type Aggregator struct {
	Scanner *Scanner
	// MaxProviders bounds how many provider scans run at once; 0 means
	// GOMAXPROCS.
	MaxProviders int
}

// ScanRequest is the shared input of one aggregation.
type ScanRequest struct {
	Token      string
	LocationID string
	Providers  []models.Provider
	ServiceIDs []string
	Dates      models.DateRange
}

// distinct returns the unique ids in first-appearance order.
func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// scanService scans every provider for one service concurrently and returns
// the concatenation in roster order.
func (a *Aggregator) scanService(ctx context.Context, req ScanRequest, serviceID string) []models.Slot {
	mapper := iter.Mapper[models.Provider, []models.Slot]{MaxGoroutines: a.MaxProviders}
	perProvider := mapper.Map(req.Providers, func(p *models.Provider) []models.Slot {
		return a.Scanner.Scan(ctx, req.Token, ScanTarget{
			LocationID: req.LocationID,
			Provider:   *p,
			ServiceID:  serviceID,
			Dates:      req.Dates,
		})
	})

	var all []models.Slot
	for _, slots := range perProvider {
		all = append(all, slots...)
	}
	return all
}

// ScanByService returns one slot list per requested position. Each distinct
// service id is scanned once; batches run one after another.
func (a *Aggregator) ScanByService(ctx context.Context, req ScanRequest) [][]models.Slot {
	byID := make(map[string][]models.Slot)
	for _, id := range distinct(req.ServiceIDs) {
		byID[id] = a.scanService(ctx, req, id)
	}

	out := make([][]models.Slot, len(req.ServiceIDs))
	for i, id := range req.ServiceIDs {
		out[i] = byID[id]
	}
	return out
}

// GuestPositions maps each service id to the zero-based guest positions
// requesting it.
func GuestPositions(serviceIDs []string) map[string][]int {
	positions := make(map[string][]int)
	for i, id := range serviceIDs {
		positions[id] = append(positions[id], i)
	}
	return positions
}

// Aggregate builds the per-instant index, tagging every slot with the guest
// positions whose requested service it satisfies.
func (a *Aggregator) Aggregate(ctx context.Context, req ScanRequest) *models.AvailabilityIndex {
	positions := GuestPositions(req.ServiceIDs)
	ix := models.NewAvailabilityIndex()
	for _, id := range distinct(req.ServiceIDs) {
		for _, slot := range a.scanService(ctx, req, id) {
			ix.Add(models.IndexEntry{Slot: slot, Guests: positions[id]})
		}
	}
	return ix
}
