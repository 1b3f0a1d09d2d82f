package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"pokedex-list-backend/internal/metrics"
	"pokedex-list-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// SubscriptionSource is the part of the store the workers need.
type SubscriptionSource interface {
	ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// Alert is the push payload sent when a list load fails.
type Alert struct {
	Kind       string    `json:"kind"`
	StatusCode int       `json:"statusCode,omitempty"`
	Message    string    `json:"message"`
	At         time.Time `json:"at"`
}

// WorkerPool manages a pool of workers for sending alerts.
type WorkerPool struct {
	size    int
	jobs    chan Alert
	subs    SubscriptionSource
	webpush *webpush.Options
	sender  NotificationSender
	logger  *zap.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, subs SubscriptionSource, webpushOptions *webpush.Options, logger *zap.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Alert, size*4),
		subs:    subs,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		logger:  logger,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log := wp.logger.With(zap.Int("worker", id))
	log.Debug("alert worker started")
	for {
		select {
		case alert := <-wp.jobs:
			wp.broadcast(ctx, alert)
		case <-ctx.Done():
			log.Debug("alert worker shutting down")
			return
		}
	}
}

// Dispatch queues an alert. It never blocks; when the queue is full the alert
// is dropped and Dispatch returns false.
func (wp *WorkerPool) Dispatch(alert Alert) bool {
	select {
	case wp.jobs <- alert:
		return true
	default:
		wp.logger.Warn("alert queue full, dropping alert", zap.String("kind", alert.Kind))
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Alert {
	return wp.jobs
}

// broadcast sends one alert to every subscription.
func (wp *WorkerPool) broadcast(ctx context.Context, alert Alert) {
	subscriptions, err := wp.subs.ListSubscriptions(ctx)
	if err != nil {
		wp.logger.Error("failed to load subscriptions", zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		wp.logger.Error("failed to encode alert", zap.Error(err))
		return
	}

	wp.logger.Info("sending load failure alert",
		zap.String("kind", alert.Kind), zap.Int("subscriptions", len(subscriptions)))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		metrics.RecordAlert("error")
		wp.logger.Warn("failed to send alert", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are removed.
	if resp.StatusCode == http.StatusGone {
		metrics.RecordAlert("expired")
		wp.logger.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.subs.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.logger.Warn("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
		return
	}
	metrics.RecordAlert("sent")
}
