package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Availability endpoints
	FindMultiAvailability   gin.HandlerFunc
	FindGroupAvailability   gin.HandlerFunc
	FindStylistAvailability gin.HandlerFunc

	// Reference data
	ListStylists gin.HandlerFunc
	ListServices gin.HandlerFunc

	// RecentSearches is nil when search records are not persisted.
	RecentSearches gin.HandlerFunc

	Health gin.HandlerFunc

	// APISecret enables bearer auth on the search endpoints when set.
	APISecret string
	// MaxRequestsPerMin is the per-IP budget.
	MaxRequestsPerMin int
}

// NewHandlerBundle assembles the bundle from the handler structs. searches
// may be nil.
func NewHandlerBundle(av *AvailabilityHandler, searches *SearchesHandler, health *HealthHandler, apiSecret string, perMin int) *HandlerBundle {
	hb := &HandlerBundle{
		FindMultiAvailability:   av.FindMultiAvailability,
		FindGroupAvailability:   av.FindGroupAvailability,
		FindStylistAvailability: av.FindStylistAvailability,
		ListStylists:            av.ListStylists,
		ListServices:            av.ListServices,
		Health:                  health.Health,
		APISecret:               apiSecret,
		MaxRequestsPerMin:       perMin,
	}
	if searches != nil {
		hb.RecentSearches = searches.RecentSearches
	}
	return hb
}
