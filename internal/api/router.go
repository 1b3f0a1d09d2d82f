package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"pokedex-list-backend/config"
	"pokedex-list-backend/internal/mw"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, handler *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mw.Recovery(logger), mw.Logger(logger), mw.Cors(cfg.AllowedOrigins))
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)

	// Derived and audit data only; view state is never cached.
	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "views": handler.views.Len()})
	})

	r.GET("/views/:id", rateLimiter, handler.RenderView)
	// One long-lived stream per open page; the browser does not retry after a 429.
	r.GET("/api/views/:id/events", handler.StreamViewEvents)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/views", handler.CreateView)
		api.PUT("/views/:id/appear", handler.AppearView)
		api.POST("/views/:id/reload", handler.ReloadView)
		api.GET("/views/:id/state", handler.GetViewState)
		api.DELETE("/views/:id", handler.DeleteView)

		api.GET("/images/:id", caching, handler.GetImageURL)
		api.GET("/fetches", caching, handler.ListFetches)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
