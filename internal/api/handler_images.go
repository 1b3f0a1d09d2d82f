package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetImageURL handles GET /api/images/:id. The URL is derived from the id
// alone; the image itself is never fetched.
func (h *Handler) GetImageURL(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "url": h.presenter.ImageURL(id)})
}
