// Package session tracks the live list views. Each view owns one view model;
// a view that is torn down or stays idle past its TTL is closed, which
// cancels its in-flight fetch.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"pokedex-list-backend/internal/metrics"
	"pokedex-list-backend/internal/viewmodel"
)

// ErrViewNotFound is returned for unknown or expired view ids.
var ErrViewNotFound = errors.New("view not found")

// Registry holds the live views keyed by id.
type Registry struct {
	ctx    context.Context
	views  *cache.Cache
	loader viewmodel.Loader
	limit  int
	logger *zap.Logger
}

// NewRegistry creates a registry whose views expire after ttl without access.
// Canceling ctx tears every view down.
func NewRegistry(ctx context.Context, ttl time.Duration, loader viewmodel.Loader, limit int, logger *zap.Logger) *Registry {
	cleanup := ttl / 2
	if cleanup <= 0 {
		cleanup = time.Minute
	}

	r := &Registry{
		ctx:    ctx,
		views:  cache.New(ttl, cleanup),
		loader: loader,
		limit:  limit,
		logger: logger,
	}
	r.views.OnEvicted(func(id string, v interface{}) {
		v.(*viewmodel.ListViewModel).Close()
		metrics.ActiveViews.Dec()
		r.logger.Debug("view torn down", zap.String("view", id))
	})
	context.AfterFunc(ctx, r.Close)
	return r
}

// Create registers a new idle view and returns its id.
func (r *Registry) Create() (string, *viewmodel.ListViewModel) {
	id := uuid.NewString()
	vm := viewmodel.New(r.ctx, r.loader, r.limit, r.logger.With(zap.String("view", id)))
	r.views.SetDefault(id, vm)
	metrics.ActiveViews.Inc()
	r.logger.Debug("view created", zap.String("view", id))
	return id, vm
}

// Get returns the view and refreshes its expiry.
func (r *Registry) Get(id string) (*viewmodel.ListViewModel, error) {
	v, found := r.views.Get(id)
	if !found {
		return nil, ErrViewNotFound
	}
	vm := v.(*viewmodel.ListViewModel)
	if vm.Closed() {
		r.views.Delete(id)
		return nil, ErrViewNotFound
	}
	// Replace refuses keys deleted concurrently, so a torn-down view is never revived.
	if err := r.views.Replace(id, vm, cache.DefaultExpiration); err != nil {
		return nil, ErrViewNotFound
	}
	return vm, nil
}

// Teardown closes and removes a view.
func (r *Registry) Teardown(id string) error {
	if _, found := r.views.Get(id); !found {
		return ErrViewNotFound
	}
	r.views.Delete(id)
	return nil
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	return r.views.ItemCount()
}

// Close tears every view down.
func (r *Registry) Close() {
	for id := range r.views.Items() {
		r.views.Delete(id)
	}
}
