package routes

import (
	"time"

	"slotfinder/handlers"
	"slotfinder/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes registers the slot search endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.APISecret))
		api.POST("/find-multi-availability", hb.FindMultiAvailability)
		api.POST("/find-group-availability", hb.FindGroupAvailability)
		api.POST("/find-stylist-availability", hb.FindStylistAvailability)
		api.GET("/stylists", hb.ListStylists)
		api.GET("/services", hb.ListServices)
		if hb.RecentSearches != nil {
			api.GET("/searches/recent", hb.RecentSearches)
		}
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))

	RegisterHealthRoute(r, hb)
	RegisterAvailabilityRoutes(r, hb)
}
