package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pokedex-list-backend/internal/session"
	"pokedex-list-backend/internal/viewmodel"
)

// CreateView handles POST /api/views.
func (h *Handler) CreateView(c *gin.Context) {
	id, vm := h.views.Create()
	c.JSON(http.StatusCreated, h.stateResponse(id, vm.State()))
}

// view resolves the :id param or writes a 404.
func (h *Handler) view(c *gin.Context) (string, *viewmodel.ListViewModel, bool) {
	id := c.Param("id")
	vm, err := h.views.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return id, nil, false
	}
	return id, vm, true
}

// AppearView handles PUT /api/views/:id/appear. Only the first appearance
// starts a fetch.
func (h *Handler) AppearView(c *gin.Context) {
	id, vm, ok := h.view(c)
	if !ok {
		return
	}
	started := vm.Appear()
	c.JSON(http.StatusAccepted, gin.H{"started": started, "state": h.stateResponse(id, vm.State())})
}

// ReloadView handles POST /api/views/:id/reload.
func (h *Handler) ReloadView(c *gin.Context) {
	id, vm, ok := h.view(c)
	if !ok {
		return
	}
	switch err := vm.Reload(); {
	case errors.Is(err, viewmodel.ErrLoadInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, viewmodel.ErrClosed):
		c.JSON(http.StatusNotFound, gin.H{"error": session.ErrViewNotFound.Error()})
		return
	}
	c.JSON(http.StatusAccepted, h.stateResponse(id, vm.State()))
}

// GetViewState handles GET /api/views/:id/state.
func (h *Handler) GetViewState(c *gin.Context) {
	id, vm, ok := h.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(id, vm.State()))
}

// StreamViewEvents handles GET /api/views/:id/events. It sends the current
// state, then one "state" event per change until the view or client goes away.
func (h *Handler) StreamViewEvents(c *gin.Context) {
	id, vm, ok := h.view(c)
	if !ok {
		return
	}

	states, unsubscribe := vm.Subscribe()
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(_ io.Writer) bool {
		select {
		case s, open := <-states:
			if !open {
				return false
			}
			c.SSEvent("state", h.stateResponse(id, s))
			return true
		case <-ctx.Done():
			return false
		}
	})
	h.logger.Debug("event stream closed", zap.String("view", id))
}

// DeleteView handles DELETE /api/views/:id. The in-flight fetch is canceled.
func (h *Handler) DeleteView(c *gin.Context) {
	if err := h.views.Teardown(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// RenderView handles GET /views/:id.
func (h *Handler) RenderView(c *gin.Context) {
	id := c.Param("id")
	vm, err := h.views.Get(id)
	if err != nil {
		c.HTML(http.StatusNotFound, "missing.html", gin.H{"ID": id})
		return
	}
	c.HTML(http.StatusOK, "list.html", h.stateResponse(id, vm.State()))
}
