package models

import (
	"sort"
	"time"
)

// IndexEntry is one slot in the availability index together with the guest
// positions (zero based) whose requested service it satisfies.
type IndexEntry struct {
	Slot   Slot
	Guests []int
}

// AvailabilityIndex maps a start instant to the slots open at that instant.
// It is built once per request and only read afterwards.
type AvailabilityIndex struct {
	starts  []time.Time
	entries map[int64][]IndexEntry
}

func NewAvailabilityIndex() *AvailabilityIndex {
	return &AvailabilityIndex{entries: make(map[int64][]IndexEntry)}
}

// Add appends an entry, preserving first-seen order of instants and entries.
func (ix *AvailabilityIndex) Add(e IndexEntry) {
	k := e.Slot.Start.UnixNano()
	if _, ok := ix.entries[k]; !ok {
		ix.starts = append(ix.starts, e.Slot.Start)
	}
	ix.entries[k] = append(ix.entries[k], e)
}

// Starts returns the indexed instants in ascending order.
func (ix *AvailabilityIndex) Starts() []time.Time {
	out := make([]time.Time, len(ix.starts))
	copy(out, ix.starts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// At returns the entries open at the given instant.
func (ix *AvailabilityIndex) At(t time.Time) []IndexEntry {
	return ix.entries[t.UnixNano()]
}

func (ix *AvailabilityIndex) Len() int {
	return len(ix.starts)
}
