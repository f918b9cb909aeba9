package handlers

import (
	"context"
	"net/http"
	"strconv"

	"slotfinder/middleware"
	"slotfinder/models"
	"slotfinder/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// SearchHistory reads back the search audit trail.
type SearchHistory interface {
	GetRecent(ctx context.Context, mode string, limit int64) ([]models.SearchRecord, error)
}

// SearchesHandler serves the audit trail of past searches.
type SearchesHandler struct {
	History SearchHistory
}

func NewSearchesHandler(history SearchHistory) *SearchesHandler {
	return &SearchesHandler{History: history}
}

// RecentSearches handles GET /searches/recent?mode=&limit=.
func (h *SearchesHandler) RecentSearches(c *gin.Context) {
	mode := c.Query("mode")
	switch mode {
	case "", "concurrent", "group", "staggered":
	default:
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Success: false, Error: "mode must be one of concurrent, group, staggered"})
		return
	}

	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse{Success: false, Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	records, err := h.History.GetRecent(c.Request.Context(), mode, int64(limit))
	if err != nil {
		middleware.LoggerFrom(c).Error("recent searches lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Success: false, Error: "Could not load recent searches"})
		return
	}
	if records == nil {
		records = []models.SearchRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(records), "searches": records})
}
