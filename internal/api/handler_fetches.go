package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pokedex-list-backend/internal/model"
	"pokedex-list-backend/internal/store"
)

// ListFetches handles GET /api/fetches?limit=&outcome=.
func (h *Handler) ListFetches(c *gin.Context) {
	var q store.FetchQuery

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit'. Use a positive integer."})
			return
		}
		q.Limit = limit
	}

	switch outcome := c.Query("outcome"); outcome {
	case "", model.OutcomeSuccess, model.OutcomeFailure, model.OutcomeCanceled:
		q.Outcome = outcome
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'outcome'"})
		return
	}

	records, err := h.store.RecentFetches(c.Request.Context(), q)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fetch records"})
		return
	}
	c.JSON(http.StatusOK, records)
}
