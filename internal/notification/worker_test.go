package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pokedex-list-backend/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// fakeSubscriptions is an in-memory SubscriptionSource.
type fakeSubscriptions struct {
	mu      sync.Mutex
	subs    []model.PushSubscription
	listErr error
	deleted chan string
}

func (f *fakeSubscriptions) ListSubscriptions(context.Context) ([]model.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.PushSubscription(nil), f.subs...), nil
}

func (f *fakeSubscriptions) DeleteSubscription(_ context.Context, endpoint string) error {
	f.deleted <- endpoint
	return nil
}

func okResponse(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(""))}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, &fakeSubscriptions{}, &webpush.Options{}, zap.NewNop())

	assert.True(t, wp.Dispatch(Alert{Kind: "server", StatusCode: 404}))

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "server", job.Kind)
		assert.Equal(t, 404, job.StatusCode)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchDropsWhenFull(t *testing.T) {
	wp := NewWorkerPool(1, &fakeSubscriptions{}, &webpush.Options{}, zap.NewNop())

	for i := 0; i < cap(wp.Jobs()); i++ {
		require.True(t, wp.Dispatch(Alert{Kind: "transport"}))
	}
	assert.False(t, wp.Dispatch(Alert{Kind: "transport"}))
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	subs := &fakeSubscriptions{
		subs: []model.PushSubscription{
			{Endpoint: "https://example.com/push", P256DH: "test_p256dh", Auth: "test_auth"},
			{Endpoint: "https://example.com/expired", P256DH: "old_p256dh", Auth: "old_auth"},
		},
		deleted: make(chan string, 1),
	}
	wp := NewWorkerPool(1, subs, &webpush.Options{}, zap.NewNop())

	var mu sync.Mutex
	var sent []string
	var payloads []Alert
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			var alert Alert
			if err := json.Unmarshal(payload, &alert); err != nil {
				return nil, err
			}
			mu.Lock()
			sent = append(sent, sub.Endpoint)
			payloads = append(payloads, alert)
			mu.Unlock()

			if sub.Endpoint == "https://example.com/expired" {
				return okResponse(http.StatusGone), nil
			}
			return okResponse(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Alert{Kind: "server", StatusCode: 503, Message: "server returned status 503"})

	select {
	case endpoint := <-subs.deleted:
		assert.Equal(t, "https://example.com/expired", endpoint)
	case <-time.After(2 * time.Second):
		t.Fatal("expired subscription was not deleted")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"https://example.com/push", "https://example.com/expired"}, sent)
	for _, p := range payloads {
		assert.Equal(t, "server", p.Kind)
		assert.Equal(t, 503, p.StatusCode)
	}
}

func TestWorkerPool_ListError(t *testing.T) {
	called := make(chan struct{}, 1)
	subs := &fakeSubscriptions{listErr: errors.New("db down")}
	wp := NewWorkerPool(1, subs, &webpush.Options{}, zap.NewNop())
	wp.sender = &mockSender{
		SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
			called <- struct{}{}
			return okResponse(http.StatusCreated), nil
		},
	}

	wp.broadcast(context.Background(), Alert{Kind: "decode"})

	select {
	case <-called:
		t.Fatal("no alert should be sent when subscriptions cannot be loaded")
	default:
	}
}
