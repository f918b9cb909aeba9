package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"slotfinder/middleware"
	"slotfinder/services/availability"
	"slotfinder/services/catalog"
	"slotfinder/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServiceCatalog lists the bookable services.
type ServiceCatalog interface {
	Services() []catalog.Service
}

// AvailabilityHandler serves the slot search endpoints.
type AvailabilityHandler struct {
	Svc     availability.AvailabilityService
	Catalog ServiceCatalog
}

func NewAvailabilityHandler(svc availability.AvailabilityService, cat ServiceCatalog) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc, Catalog: cat}
}

type searchRequest struct {
	Services         []string `json:"services"`
	DateStart        string   `json:"date_start"`
	DateEnd          string   `json:"date_end"`
	SpecificDate     string   `json:"specific_date"`
	TimePreference   string   `json:"time_preference"`
	PreferredStylist string   `json:"preferred_stylist"`
	Stylist          string   `json:"stylist"`
	LocationID       string   `json:"location_id"`
}

func (r searchRequest) query(c *gin.Context) availability.Query {
	return availability.Query{
		RequestID:         middleware.RequestID(c),
		Services:          r.Services,
		DateStart:         r.DateStart,
		DateEnd:           r.DateEnd,
		SpecificDate:      r.SpecificDate,
		TimePreference:    r.TimePreference,
		PreferredProvider: r.PreferredStylist,
		Provider:          r.Stylist,
		LocationID:        r.LocationID,
	}
}

func bindSearch(c *gin.Context) (searchRequest, bool) {
	var body searchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.LoggerFrom(c).Warn("invalid search request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Success: false, Error: "invalid request body", Details: err.Error()})
		return searchRequest{}, false
	}
	return body, true
}

// respondError maps service errors onto the structured failure body.
func respondError(c *gin.Context, err error) {
	var ve *availability.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, validationResponse{Success: false, Error: ve.Message, AvailableStylist: ve.Hint})
	case errors.Is(err, availability.ErrUpstreamAuth):
		middleware.LoggerFrom(c).Error("upstream authentication failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, utils.ErrorResponse{Success: false, Error: "Unable to reach the booking system. Please try again later."})
	default:
		middleware.LoggerFrom(c).Error("availability search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Success: false, Error: "Availability search failed"})
	}
}

// FindMultiAvailability handles POST /find-multi-availability.
func (h *AvailabilityHandler) FindMultiAvailability(c *gin.Context) {
	body, ok := bindSearch(c)
	if !ok {
		return
	}
	out, err := h.Svc.FindConcurrent(c.Request.Context(), body.query(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := concurrentResponse{
		Success:    true,
		Found:      len(out.Matches) > 0,
		GuestCount: out.GuestCount,
		AllSlots:   []matchResponse{},
		DateRange:  out.Dates.DTO(),
	}
	if !resp.Found {
		resp.Message = fmt.Sprintf("No concurrent availability found for %d guests in the date range", out.GuestCount)
		c.JSON(http.StatusOK, resp)
		return
	}

	top := out.Matches
	if len(top) > topMatches {
		top = top[:topMatches]
	}
	for _, m := range top {
		resp.AllSlots = append(resp.AllSlots, newMatchResponse(m))
	}
	earliest := resp.AllSlots[0]
	resp.EarliestSlot = &earliest
	resp.TotalConcurrent = len(out.Matches)
	resp.Message = fmt.Sprintf("Found %d time slots where %d guests can be seen at the same time. Earliest: %s",
		len(out.Matches), out.GuestCount, earliest.FormattedFull)
	c.JSON(http.StatusOK, resp)
}

// FindGroupAvailability handles POST /find-group-availability.
func (h *AvailabilityHandler) FindGroupAvailability(c *gin.Context) {
	body, ok := bindSearch(c)
	if !ok {
		return
	}
	out, err := h.Svc.FindGroup(c.Request.Context(), body.query(c))
	if err != nil {
		respondError(c, err)
		return
	}

	names, lists := byService(out.Services)
	resp := groupResponse{
		Success:               true,
		ServicesSearched:      names,
		DateRange:             out.Dates.DTO(),
		SameTimeOptions:       []sameTimeResponse{},
		BackToBackOptions:     []backToBackResponse{},
		AvailabilityByService: lists,
	}
	if len(names) >= 2 {
		resp.SameTimeOptions = newSameTime(out.SameTime, names[0], names[1], topSameTime)
		resp.BackToBackOptions = newBackToBack(out.BackToBack, names[0], names[1], topPairs)
	}
	resp.SameTimeAvailable = len(out.SameTime) > 0
	resp.BackToBackAvailable = len(out.BackToBack) > 0

	switch {
	case len(names) < 2:
		resp.Message = fmt.Sprintf("Found %d openings for %s", len(out.Services[0].Slots), names[0])
	case resp.SameTimeAvailable:
		resp.Message = fmt.Sprintf("Found %d same-time slots and %d back-to-back options", len(out.SameTime), len(out.BackToBack))
	case resp.BackToBackAvailable:
		resp.Message = fmt.Sprintf("No same-time slots available. Found %d back-to-back options", len(out.BackToBack))
	default:
		resp.Message = "No compatible slots found for these services"
	}
	c.JSON(http.StatusOK, resp)
}

// FindStylistAvailability handles POST /find-stylist-availability.
func (h *AvailabilityHandler) FindStylistAvailability(c *gin.Context) {
	body, ok := bindSearch(c)
	if !ok {
		return
	}
	out, err := h.Svc.FindStaggered(c.Request.Context(), body.query(c))
	if err != nil {
		respondError(c, err)
		return
	}

	names, lists := byService(out.Services)
	resp := staggeredResponse{
		Success:               true,
		Stylist:               newStylist(out.Provider),
		ServicesSearched:      names,
		DateRange:             out.Dates.DTO(),
		BackToBackAvailable:   len(out.BackToBack) > 0,
		BackToBackOptions:     []backToBackResponse{},
		AvailabilityByService: lists,
	}
	stylist := out.Provider.DisplayName()
	switch {
	case resp.BackToBackAvailable:
		resp.BackToBackOptions = newBackToBack(out.BackToBack, names[0], names[1], topPairs)
		resp.Message = fmt.Sprintf("Found %d back-to-back options with %s", len(out.BackToBack), stylist)
	default:
		resp.Message = fmt.Sprintf("No back-to-back slots found with %s for these services", stylist)
	}
	c.JSON(http.StatusOK, resp)
}

// ListStylists handles GET /stylists.
func (h *AvailabilityHandler) ListStylists(c *gin.Context) {
	roster, err := h.Svc.Roster(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]stylistResponse, len(roster))
	for i, p := range roster {
		out[i] = newStylist(p)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(out), "stylists": out})
}

// ListServices handles GET /services.
func (h *AvailabilityHandler) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "services": h.Catalog.Services()})
}
