package models

import (
	"fmt"
	"time"
)

// Slot is one open appointment a provider can perform for a service.
type Slot struct {
	ProviderID   string    `json:"stylist_id"`
	ProviderName string    `json:"stylist_name"`
	ServiceID    string    `json:"service_id"`
	ServiceName  string    `json:"service_name,omitempty"`
	Start        time.Time `json:"start_time"`
	End          time.Time `json:"end_time"`
	Price        float64   `json:"price"`
}

// SlotKey identifies a slot for deduplication.
type SlotKey struct {
	ProviderID string
	ServiceID  string
	Start      int64
}

func (s Slot) Key() SlotKey {
	return SlotKey{ProviderID: s.ProviderID, ServiceID: s.ServiceID, Start: s.Start.UnixNano()}
}

// DiscoveryWindow is a time-of-day sub-range in minutes from midnight.
type DiscoveryWindow struct {
	Start int
	End   int
}

// Clock renders a minute offset as "HH:MM".
func Clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (w DiscoveryWindow) String() string {
	return Clock(w.Start) + "-" + Clock(w.End)
}

// DateRange is an inclusive range of civil dates in the business location.
type DateRange struct {
	Start time.Time
	End   time.Time
}

const DateLayout = "2006-01-02"

// Days lists each day of the range; an inverted range has no days.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DayCount is len(r.Days()) without building the list.
func (r DateRange) DayCount() int {
	civil := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	if r.End.Before(r.Start) {
		return 0
	}
	return int(civil(r.End).Sub(civil(r.Start))/(24*time.Hour)) + 1
}

// DateRangeDTO is the wire form of a DateRange.
type DateRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r DateRange) DTO() DateRangeDTO {
	return DateRangeDTO{Start: r.Start.Format(DateLayout), End: r.End.Format(DateLayout)}
}
