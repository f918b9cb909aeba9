package availability

import (
	"sort"
	"time"

	"slotfinder/models"
)

// ConcurrentOptions tune concurrent-mode matching.
type ConcurrentOptions struct {
	PreferredProvider string
	TimePreference    models.TimePreference
	// Exhaustive retries instants where first-fit fails with a full
	// bipartite matching.
	Exhaustive bool
}

// freeProviders groups the entries at one instant by provider, in order of
// first appearance.
type freeProviders struct {
	order   []string
	entries map[string][]models.IndexEntry
}

func groupByProvider(entries []models.IndexEntry) freeProviders {
	fp := freeProviders{entries: make(map[string][]models.IndexEntry)}
	for _, e := range entries {
		id := e.Slot.ProviderID
		if _, ok := fp.entries[id]; !ok {
			fp.order = append(fp.order, id)
		}
		fp.entries[id] = append(fp.entries[id], e)
	}
	return fp
}

// slotFor returns the provider's slot tagged for the guest position.
func (fp freeProviders) slotFor(providerID string, guest int) (models.Slot, bool) {
	for _, e := range fp.entries[providerID] {
		for _, g := range e.Guests {
			if g == guest {
				return e.Slot, true
			}
		}
	}
	return models.Slot{}, false
}

// pinPreferred gives guest 1 the preferred provider when free: their slot
// for guest 1's service if they offer it, otherwise their first slot.
func (fp freeProviders) pinPreferred(preferred string) (models.Slot, bool) {
	if preferred == "" {
		return models.Slot{}, false
	}
	entries := fp.entries[preferred]
	if len(entries) == 0 {
		return models.Slot{}, false
	}
	if s, ok := fp.slotFor(preferred, 0); ok {
		return s, true
	}
	return entries[0].Slot, true
}

// firstFit assigns guests in order to the first unused provider offering
// their service. It commits early and may miss feasible assignments.
func firstFit(fp freeProviders, guests int, preferred string) []models.Slot {
	assigned := make([]models.Slot, guests)
	used := make(map[string]bool)
	next := 0

	if s, ok := fp.pinPreferred(preferred); ok {
		assigned[0] = s
		used[preferred] = true
		next = 1
	}

	for i := next; i < guests; i++ {
		found := false
		for _, pid := range fp.order {
			if used[pid] {
				continue
			}
			if s, ok := fp.slotFor(pid, i); ok {
				assigned[i] = s
				used[pid] = true
				found = true
				break
			}
		}
		if !found {
			return nil
		}
	}
	return assigned
}

// bipartite finds a complete guest-to-provider assignment via augmenting
// paths whenever one exists, keeping the preferred-provider pin.
func bipartite(fp freeProviders, guests int, preferred string) []models.Slot {
	owner := make(map[string]int)
	assigned := make([]models.Slot, guests)
	start := 0

	if s, ok := fp.pinPreferred(preferred); ok {
		assigned[0] = s
		owner[preferred] = 0
		start = 1
	}

	var try func(guest int, visited map[string]bool) bool
	try = func(guest int, visited map[string]bool) bool {
		for _, pid := range fp.order {
			if visited[pid] {
				continue
			}
			s, ok := fp.slotFor(pid, guest)
			if !ok {
				continue
			}
			visited[pid] = true
			holder, taken := owner[pid]
			if taken && (holder < start || !try(holder, visited)) {
				continue
			}
			owner[pid] = guest
			assigned[guest] = s
			return true
		}
		return false
	}

	for g := start; g < guests; g++ {
		if !try(g, make(map[string]bool)) {
			return nil
		}
	}
	return assigned
}

// MatchConcurrent finds every instant at which each of n guests can be served
// by a distinct provider, ascending by start. Candidates come from the guest
// positions each index entry is tagged with.
func MatchConcurrent(ix *models.AvailabilityIndex, n int, opts ConcurrentOptions) []models.MatchedSlot {
	matches := []models.MatchedSlot{}
	if n <= 0 {
		return matches
	}

	for _, start := range ix.Starts() {
		if !opts.TimePreference.Allows(start) {
			continue
		}
		fp := groupByProvider(ix.At(start))
		if len(fp.order) < n {
			continue
		}

		slots := firstFit(fp, n, opts.PreferredProvider)
		if slots == nil && opts.Exhaustive {
			slots = bipartite(fp, n, opts.PreferredProvider)
		}
		if slots == nil {
			continue
		}
		matches = append(matches, buildMatch(start, slots))
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Start.Before(matches[j].Start) })
	return matches
}

func buildMatch(start time.Time, slots []models.Slot) models.MatchedSlot {
	m := models.MatchedSlot{Start: start, Assignments: make([]models.Assignment, 0, len(slots))}
	for i, s := range slots {
		m.Assignments = append(m.Assignments, models.Assignment{
			Guest:        i + 1,
			ProviderID:   s.ProviderID,
			ProviderName: s.ProviderName,
			ServiceID:    s.ServiceID,
			ServiceName:  s.ServiceName,
			End:          s.End,
			Price:        s.Price,
		})
		m.TotalPrice += s.Price
	}
	return m
}
