package handlers

import (
	"net/http"

	"slotfinder/utils"

	"github.com/gin-gonic/gin"
)

const Version = "2.2.0"

var features = []string{
	"active stylist roster fetched from the booking platform and cached",
	"concurrent multi-stylist availability",
	"multi-service group availability",
	"back-to-back slot finder",
	"single-stylist staggered availability",
	"time preference filter",
	"formatted date fields (day_of_week, formatted_date, formatted_time, formatted_full)",
	"overlapping discovery windows to recover every slot past the per-query cap",
}

// HealthHandler reports liveness and the last dependency probe.
type HealthHandler struct {
	Env      string
	Location string
}

func NewHealthHandler(env, location string) *HealthHandler {
	return &HealthHandler{Env: env, Location: location}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	state := "ok"
	for _, healthy := range status.Dependencies {
		if !healthy {
			state = "degraded"
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       state,
		"environment":  h.Env,
		"location":     h.Location,
		"service":      "slotfinder",
		"version":      Version,
		"features":     features,
		"dependencies": status.Dependencies,
		"checkedAt":    status.CheckedAt,
	})
}
