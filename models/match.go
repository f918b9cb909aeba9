package models

import "time"

// Assignment binds one guest to a provider for a service.
type Assignment struct {
	Guest        int       `json:"guest_number"`
	ProviderID   string    `json:"stylist_id"`
	ProviderName string    `json:"stylist_name"`
	ServiceID    string    `json:"service_id"`
	ServiceName  string    `json:"service_name,omitempty"`
	End          time.Time `json:"end_time"`
	Price        float64   `json:"price"`
}

// MatchedSlot is a start instant at which every guest has a distinct provider.
type MatchedSlot struct {
	Start       time.Time    `json:"start_time"`
	Assignments []Assignment `json:"assignments"`
	TotalPrice  float64      `json:"total_price"`
}

// TimePreference narrows candidate instants by local time of day.
type TimePreference string

const (
	PreferAny       TimePreference = "any"
	PreferMorning   TimePreference = "morning"
	PreferAfternoon TimePreference = "afternoon"
)

// Allows reports whether a local instant satisfies the preference.
func (p TimePreference) Allows(t time.Time) bool {
	switch p {
	case PreferMorning:
		return t.Hour() < 12
	case PreferAfternoon:
		return t.Hour() >= 12
	default:
		return true
	}
}

// SlotPair is a two-guest option. Gap is zero for same-time pairs.
type SlotPair struct {
	First      Slot
	Second     Slot
	GapMinutes int
}

// ServiceAvailability is the open slot list for one requested service.
type ServiceAvailability struct {
	ServiceID   string
	ServiceName string
	Slots       []Slot
}
