package availability

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"slotfinder/models"
)

func entry(providerID, serviceID string, start time.Time, price float64, guests ...int) models.IndexEntry {
	return models.IndexEntry{
		Slot: models.Slot{
			ProviderID:   providerID,
			ProviderName: providerID,
			ServiceID:    serviceID,
			Start:        start,
			End:          start.Add(30 * time.Minute),
			Price:        price,
		},
		Guests: guests,
	}
}

// indexFor tags each entry with the guest positions requesting its service,
// the way Aggregate does.
func indexFor(services []string, entries ...models.IndexEntry) *models.AvailabilityIndex {
	positions := GuestPositions(services)
	ix := models.NewAvailabilityIndex()
	for _, e := range entries {
		e.Guests = positions[e.Slot.ServiceID]
		ix.Add(e)
	}
	return ix
}

func TestConcurrentTwoHaircutsScenario(t *testing.T) {
	src := newFakePlatform(8)
	for _, p := range []string{"a", "b"} {
		src.add(p, "haircut", at(21, 10, 0), 30*time.Minute, 25)
		src.add(p, "haircut", at(21, 11, 0), 30*time.Minute, 25)
	}
	agg := newTestAggregator(src)
	services := []string{"haircut", "haircut"}

	ix := agg.Aggregate(context.Background(), ScanRequest{
		Token:      "tok",
		Providers:  []models.Provider{provider("a"), provider("b")},
		ServiceIDs: services,
		Dates:      day(21),
	})
	matches := MatchConcurrent(ix, len(services), ConcurrentOptions{})

	if len(matches) != 2 {
		t.Fatalf("expected matches at 10:00 and 11:00, got %d", len(matches))
	}
	earliest := matches[0]
	if !earliest.Start.Equal(at(21, 10, 0)) {
		t.Fatalf("expected earliest at 10:00, got %v", earliest.Start)
	}
	if len(earliest.Assignments) != 2 || earliest.Assignments[0].ProviderID == earliest.Assignments[1].ProviderID {
		t.Fatalf("expected two distinct providers, got %+v", earliest.Assignments)
	}
	if earliest.TotalPrice != 50 {
		t.Fatalf("expected total price 50, got %v", earliest.TotalPrice)
	}
}

func TestAggregateScansDuplicateServicesOnce(t *testing.T) {
	src := newFakePlatform(8)
	src.add("a", "haircut", at(21, 10, 0), 30*time.Minute, 25)
	agg := newTestAggregator(src)

	ix := agg.Aggregate(context.Background(), ScanRequest{
		Providers:  []models.Provider{provider("a")},
		ServiceIDs: []string{"haircut", "haircut"},
		Dates:      day(21),
	})
	if src.callCount() != 15 {
		t.Fatalf("expected one scan batch, got %d calls", src.callCount())
	}
	entries := ix.At(at(21, 10, 0))
	if len(entries) != 1 || len(entries[0].Guests) != 2 {
		t.Fatalf("expected one entry tagged for both guests, got %+v", entries)
	}
}

func TestConcurrentRequiresEveryGuest(t *testing.T) {
	ix := models.NewAvailabilityIndex()
	ix.Add(entry("a", "cut", at(21, 10, 0), 20, 0))
	ix.Add(entry("b", "cut", at(21, 10, 0), 20, 0))

	// Two providers are free but nobody offers the second guest's service.
	matches := MatchConcurrent(ix, 2, ConcurrentOptions{Exhaustive: true})
	if len(matches) != 0 {
		t.Fatalf("expected partial assignment to be discarded, got %+v", matches)
	}
}

func TestConcurrentUsesGuestTagsNotServiceIDs(t *testing.T) {
	ix := models.NewAvailabilityIndex()
	ix.Add(entry("a", "cut", at(21, 10, 0), 20, 0))
	ix.Add(entry("b", "cut", at(21, 10, 0), 20))
	ix.Add(entry("a", "cut", at(21, 11, 0), 20, 1))
	ix.Add(entry("b", "color", at(21, 11, 0), 40, 0))

	// At 10:00 b offers the right service but is not tagged for guest 2.
	matches := MatchConcurrent(ix, 2, ConcurrentOptions{Exhaustive: true})
	if len(matches) != 1 {
		t.Fatalf("expected only the 11:00 instant, got %+v", matches)
	}
	got := matches[0].Assignments
	if got[0].ProviderID != "b" || got[0].ServiceID != "color" || got[1].ProviderID != "a" {
		t.Fatalf("expected assignment to follow guest tags, got %+v", got)
	}
}

func TestConcurrentPreferredProviderTakesGuestOne(t *testing.T) {
	services := []string{"cut", "cut"}
	ix := indexFor(services,
		entry("a", "cut", at(21, 10, 0), 20),
		entry("b", "cut", at(21, 10, 0), 20),
		entry("pref", "cut", at(21, 10, 0), 30),
	)

	matches := MatchConcurrent(ix, len(services), ConcurrentOptions{PreferredProvider: "pref"})
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	got := matches[0].Assignments
	if got[0].ProviderID != "pref" || got[0].Guest != 1 {
		t.Fatalf("expected preferred provider on guest 1, got %+v", got[0])
	}
	if got[1].ProviderID != "a" {
		t.Fatalf("expected first-fit provider a for guest 2, got %+v", got[1])
	}
}

func TestConcurrentPreferredUsesMatchingService(t *testing.T) {
	services := []string{"cut", "fade"}
	ix := indexFor(services,
		entry("pref", "fade", at(21, 10, 0), 30),
		entry("pref", "cut", at(21, 10, 0), 20),
		entry("b", "fade", at(21, 10, 0), 30),
	)

	matches := MatchConcurrent(ix, len(services), ConcurrentOptions{PreferredProvider: "pref"})
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	if a := matches[0].Assignments[0]; a.ProviderID != "pref" || a.ServiceID != "cut" {
		t.Fatalf("expected preferred provider's cut slot for guest 1, got %+v", a)
	}
}

func TestConcurrentFirstFitVersusExhaustive(t *testing.T) {
	services := []string{"fade", "cut"}
	ix := indexFor(services,
		entry("a", "fade", at(21, 10, 0), 30),
		entry("a", "cut", at(21, 10, 0), 20),
		entry("b", "fade", at(21, 10, 0), 30),
	)

	if m := MatchConcurrent(ix, len(services), ConcurrentOptions{}); len(m) != 0 {
		t.Fatalf("expected first-fit to commit a to guest 1 and fail, got %+v", m)
	}
	m := MatchConcurrent(ix, len(services), ConcurrentOptions{Exhaustive: true})
	if len(m) != 1 {
		t.Fatalf("expected augmenting path to find an assignment, got %d", len(m))
	}
	if m[0].Assignments[0].ProviderID != "b" || m[0].Assignments[1].ProviderID != "a" {
		t.Fatalf("unexpected assignment %+v", m[0].Assignments)
	}
}

func TestConcurrentTimePreference(t *testing.T) {
	services := []string{"cut", "cut"}
	var entries []models.IndexEntry
	for _, h := range []int{9, 11, 12, 15} {
		entries = append(entries, entry("a", "cut", at(21, h, 0), 20), entry("b", "cut", at(21, h, 0), 20))
	}
	ix := indexFor(services, entries...)

	for _, m := range MatchConcurrent(ix, len(services), ConcurrentOptions{TimePreference: models.PreferMorning}) {
		if m.Start.Hour() >= 12 {
			t.Fatalf("morning match at %v", m.Start)
		}
	}
	afternoon := MatchConcurrent(ix, len(services), ConcurrentOptions{TimePreference: models.PreferAfternoon})
	if len(afternoon) != 2 {
		t.Fatalf("expected 2 afternoon matches, got %d", len(afternoon))
	}
	for _, m := range afternoon {
		if m.Start.Hour() < 12 {
			t.Fatalf("afternoon match at %v", m.Start)
		}
	}
}

func TestConcurrentAssignmentsAreDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	providers := []string{"a", "b", "c", "d", "e"}
	services := []string{"cut", "fade", "wash"}

	var entries []models.IndexEntry
	for h := 8; h < 20; h++ {
		for _, p := range providers {
			for _, s := range services {
				if rng.Intn(2) == 0 {
					entries = append(entries, entry(p, s, at(21, h, 0), float64(10+rng.Intn(30))))
				}
			}
		}
	}

	for _, guests := range [][]string{{"cut", "cut"}, {"cut", "fade", "wash"}, {"wash", "wash", "wash", "fade"}} {
		ix := indexFor(guests, entries...)
		for _, exhaustive := range []bool{false, true} {
			matches := MatchConcurrent(ix, len(guests), ConcurrentOptions{Exhaustive: exhaustive, PreferredProvider: "c"})
			for _, m := range matches {
				if len(m.Assignments) != len(guests) {
					t.Fatalf("match at %v has %d assignments for %d guests", m.Start, len(m.Assignments), len(guests))
				}
				seen := make(map[string]bool)
				var total float64
				for _, a := range m.Assignments {
					if seen[a.ProviderID] {
						t.Fatalf("provider %s double-booked at %v", a.ProviderID, m.Start)
					}
					seen[a.ProviderID] = true
					total += a.Price
				}
				if total != m.TotalPrice {
					t.Fatalf("total price mismatch at %v", m.Start)
				}
			}
			for i := 1; i < len(matches); i++ {
				if matches[i].Start.Before(matches[i-1].Start) {
					t.Fatalf("matches not sorted")
				}
			}
		}
	}
}
