package handlers

import (
	"time"

	"slotfinder/models"
	"slotfinder/utils"
)

// Response caps.
const (
	topMatches  = 10
	topPairs    = 5
	topSameTime = 5
)

type assignmentResponse struct {
	models.Assignment
	FormattedEnd string `json:"formatted_end_time"`
}

type matchResponse struct {
	Start time.Time `json:"start_time"`
	utils.DateParts
	Assignments []assignmentResponse `json:"assignments"`
	TotalPrice  float64              `json:"total_price"`
}

func newMatchResponse(m models.MatchedSlot) matchResponse {
	out := matchResponse{
		Start:       m.Start,
		DateParts:   utils.FormatParts(m.Start),
		Assignments: make([]assignmentResponse, len(m.Assignments)),
		TotalPrice:  m.TotalPrice,
	}
	for i, a := range m.Assignments {
		out.Assignments[i] = assignmentResponse{Assignment: a, FormattedEnd: utils.FormatClock(a.End)}
	}
	return out
}

type concurrentResponse struct {
	Success         bool                `json:"success"`
	Found           bool                `json:"found"`
	GuestCount      int                 `json:"guest_count"`
	EarliestSlot    *matchResponse      `json:"earliest_slot,omitempty"`
	TotalConcurrent int                 `json:"total_concurrent_slots"`
	AllSlots        []matchResponse     `json:"all_slots"`
	DateRange       models.DateRangeDTO `json:"date_range"`
	Message         string              `json:"message"`
}

type openingResponse struct {
	Time        time.Time `json:"time"`
	End         time.Time `json:"end_time"`
	StylistID   string    `json:"stylist_id"`
	StylistName string    `json:"stylist_name"`
	Price       float64   `json:"price"`
	utils.DateParts
}

func newOpenings(slots []models.Slot) []openingResponse {
	out := make([]openingResponse, len(slots))
	for i, s := range slots {
		out[i] = openingResponse{
			Time:        s.Start,
			End:         s.End,
			StylistID:   s.ProviderID,
			StylistName: s.ProviderName,
			Price:       s.Price,
			DateParts:   utils.FormatParts(s.Start),
		}
	}
	return out
}

type pairGuest struct {
	Service     string     `json:"service"`
	Time        *time.Time `json:"time,omitempty"`
	End         *time.Time `json:"end_time,omitempty"`
	StylistID   string     `json:"stylist_id"`
	StylistName string     `json:"stylist_name"`
}

type backToBackResponse struct {
	Guest1        pairGuest `json:"guest1"`
	Guest2        pairGuest `json:"guest2"`
	GapMinutes    int       `json:"gap_minutes"`
	FormattedFull string    `json:"formatted_full"`
}

type sameTimeResponse struct {
	Time time.Time `json:"time"`
	utils.DateParts
	Guest1 pairGuest `json:"guest1"`
	Guest2 pairGuest `json:"guest2"`
}

func newBackToBack(pairs []models.SlotPair, first, second string, limit int) []backToBackResponse {
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	out := make([]backToBackResponse, len(pairs))
	for i, p := range pairs {
		a, b := p.First, p.Second
		out[i] = backToBackResponse{
			Guest1:        pairGuest{Service: first, Time: &a.Start, End: &a.End, StylistID: a.ProviderID, StylistName: a.ProviderName},
			Guest2:        pairGuest{Service: second, Time: &b.Start, End: &b.End, StylistID: b.ProviderID, StylistName: b.ProviderName},
			GapMinutes:    p.GapMinutes,
			FormattedFull: utils.FormatParts(a.Start).FormattedFull,
		}
	}
	return out
}

func newSameTime(pairs []models.SlotPair, first, second string, limit int) []sameTimeResponse {
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	out := make([]sameTimeResponse, len(pairs))
	for i, p := range pairs {
		out[i] = sameTimeResponse{
			Time:      p.First.Start,
			DateParts: utils.FormatParts(p.First.Start),
			Guest1:    pairGuest{Service: first, StylistID: p.First.ProviderID, StylistName: p.First.ProviderName},
			Guest2:    pairGuest{Service: second, StylistID: p.Second.ProviderID, StylistName: p.Second.ProviderName},
		}
	}
	return out
}

type groupResponse struct {
	Success               bool                         `json:"success"`
	ServicesSearched      []string                     `json:"services_searched"`
	DateRange             models.DateRangeDTO          `json:"date_range"`
	SameTimeAvailable     bool                         `json:"same_time_available"`
	SameTimeOptions       []sameTimeResponse           `json:"same_time_options"`
	BackToBackAvailable   bool                         `json:"back_to_back_available"`
	BackToBackOptions     []backToBackResponse         `json:"back_to_back_options"`
	AvailabilityByService map[string][]openingResponse `json:"availability_by_service"`
	Message               string                       `json:"message"`
}

type stylistResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`
	Display  string `json:"display_name"`
}

func newStylist(p models.Provider) stylistResponse {
	return stylistResponse{ID: p.ID, Name: p.Name, Nickname: p.Nickname, Display: p.DisplayName()}
}

type staggeredResponse struct {
	Success               bool                         `json:"success"`
	Stylist               stylistResponse              `json:"stylist"`
	ServicesSearched      []string                     `json:"services_searched"`
	DateRange             models.DateRangeDTO          `json:"date_range"`
	BackToBackAvailable   bool                         `json:"back_to_back_available"`
	BackToBackOptions     []backToBackResponse         `json:"back_to_back_options"`
	AvailabilityByService map[string][]openingResponse `json:"availability_by_service"`
	Message               string                       `json:"message"`
}

// validationResponse carries the roster when a stylist reference did not resolve.
type validationResponse struct {
	Success          bool     `json:"success"`
	Error            string   `json:"error"`
	AvailableStylist []string `json:"available_stylists,omitempty"`
}

func byService(services []models.ServiceAvailability) ([]string, map[string][]openingResponse) {
	names := make([]string, len(services))
	lists := make(map[string][]openingResponse, len(services))
	for i, s := range services {
		names[i] = s.ServiceName
		lists[s.ServiceName] = newOpenings(s.Slots)
	}
	return names, lists
}
