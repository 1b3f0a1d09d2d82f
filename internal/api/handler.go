package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"pokedex-list-backend/internal/present"
	"pokedex-list-backend/internal/session"
	"pokedex-list-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	views     *session.Registry
	presenter *present.Presenter
	store     store.Store
	webpush   *webpush.Options
	logger    *zap.Logger
}

// NewHandler creates a new API handler. webpushOptions is nil when push is disabled.
func NewHandler(views *session.Registry, presenter *present.Presenter, s store.Store, webpushOptions *webpush.Options, logger *zap.Logger) *Handler {
	return &Handler{
		views:     views,
		presenter: presenter,
		store:     s,
		webpush:   webpushOptions,
		logger:    logger,
	}
}
