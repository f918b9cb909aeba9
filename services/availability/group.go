package availability

import (
	"math"
	"sort"

	"slotfinder/models"
)

const (
	// GroupMaxGap is the back-to-back tolerance between different providers.
	GroupMaxGap = 30
	// StaggeredMaxGap is the tolerance when one provider serves guests in turn.
	StaggeredMaxGap = 10
	// PairSeedLimit bounds how many first-service slots seed pair search.
	PairSeedLimit = 10
	// PerServiceLimit caps each per-service availability list.
	PerServiceLimit = 100
)

// FilterAndSort applies the time preference and orders by start.
func FilterAndSort(slots []models.Slot, pref models.TimePreference) []models.Slot {
	out := make([]models.Slot, 0, len(slots))
	for _, s := range slots {
		if pref.Allows(s.Start) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func seeds(slots []models.Slot, limit int) []models.Slot {
	if limit > 0 && len(slots) > limit {
		return slots[:limit]
	}
	return slots
}

// gapMinutes is the idle time between the end of a and the start of b.
func gapMinutes(a, b models.Slot) float64 {
	return b.Start.Sub(a.End).Minutes()
}

// SameTimePairs pairs first and second slots starting together with
// different providers.
func SameTimePairs(first, second []models.Slot, seedLimit int) []models.SlotPair {
	pairs := []models.SlotPair{}
	for _, a := range seeds(first, seedLimit) {
		for _, b := range second {
			if a.Start.Equal(b.Start) && a.ProviderID != b.ProviderID {
				pairs = append(pairs, models.SlotPair{First: a, Second: b})
			}
		}
	}
	return pairs
}

// BackToBackPairs pairs a first slot with any second slot starting between 0
// and maxGap minutes after it ends. sameProvider restricts pairs to one
// provider's own schedule.
func BackToBackPairs(first, second []models.Slot, maxGap float64, seedLimit int, sameProvider bool) []models.SlotPair {
	pairs := []models.SlotPair{}
	for _, a := range seeds(first, seedLimit) {
		for _, b := range second {
			if sameProvider && a.ProviderID != b.ProviderID {
				continue
			}
			gap := gapMinutes(a, b)
			if gap < 0 || gap > maxGap {
				continue
			}
			pairs = append(pairs, models.SlotPair{First: a, Second: b, GapMinutes: int(math.Round(gap))})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].First.Start.Before(pairs[j].First.Start) })
	return pairs
}

// MatchGroup computes per-service availability plus same-time and
// back-to-back options between the first two requested services.
func MatchGroup(perService [][]models.Slot, pref models.TimePreference) ([][]models.Slot, []models.SlotPair, []models.SlotPair) {
	filtered := make([][]models.Slot, len(perService))
	for i, slots := range perService {
		filtered[i] = FilterAndSort(slots, pref)
	}
	lists := capLists(filtered)
	if len(lists) < 2 {
		return lists, []models.SlotPair{}, []models.SlotPair{}
	}

	sameTime := SameTimePairs(lists[0], lists[1], PairSeedLimit)
	backToBack := BackToBackPairs(lists[0], lists[1], GroupMaxGap, PairSeedLimit, false)
	return lists, sameTime, backToBack
}

// MatchStaggered pairs consecutive services inside one provider's schedule.
func MatchStaggered(perService [][]models.Slot, pref models.TimePreference) ([][]models.Slot, []models.SlotPair) {
	filtered := make([][]models.Slot, len(perService))
	for i, slots := range perService {
		filtered[i] = FilterAndSort(slots, pref)
	}
	lists := capLists(filtered)
	if len(lists) < 2 {
		return lists, []models.SlotPair{}
	}
	return lists, BackToBackPairs(lists[0], lists[1], StaggeredMaxGap, 0, true)
}

func capLists(lists [][]models.Slot) [][]models.Slot {
	out := make([][]models.Slot, len(lists))
	for i, l := range lists {
		out[i] = seeds(l, PerServiceLimit)
	}
	return out
}
