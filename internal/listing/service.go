package listing

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"pokedex-list-backend/internal/metrics"
	"pokedex-list-backend/internal/model"
	"pokedex-list-backend/internal/notification"
	"pokedex-list-backend/internal/pokeapi"
)

// Source fetches one decoded page from the upstream list API.
type Source interface {
	FetchList(ctx context.Context, limit int) (*pokeapi.ListPage, error)
}

// Recorder persists fetch audit rows.
type Recorder interface {
	RecordFetch(ctx context.Context, record *model.FetchRecord) error
}

// Alerter receives load failure alerts.
type Alerter interface {
	Dispatch(alert notification.Alert) bool
}

// Service is the fetch-decode-map use case behind every list view.
type Service struct {
	source   Source
	recorder Recorder
	alerter  Alerter
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates the list use case. recorder and alerter may be nil.
func NewService(source Source, recorder Recorder, alerter Alerter, logger *zap.Logger) *Service {
	return &Service{
		source:   source,
		recorder: recorder,
		alerter:  alerter,
		logger:   logger,
		now:      time.Now,
	}
}

// Load fetches one page of at most limit records and maps it to entities.
// Failures are returned unchanged; no retry is attempted.
func (s *Service) Load(ctx context.Context, limit int) ([]model.Pokemon, error) {
	started := s.now()

	page, err := s.source.FetchList(ctx, limit)

	var entities []model.Pokemon
	drift := 0
	if err == nil {
		entities = MapRecords(page.Results)
		drift = CountDrift(page.Results)
	}

	s.finish(ctx, started, limit, entities, drift, err)
	return entities, err
}

// finish records the attempt in logs, metrics, the audit store and alerts.
func (s *Service) finish(ctx context.Context, started time.Time, limit int, entities []model.Pokemon, drift int, err error) {
	duration := s.now().Sub(started)
	kind, status := pokeapi.KindOf(err)

	outcome := model.OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		outcome = model.OutcomeCanceled
	default:
		outcome = model.OutcomeFailure
	}

	metrics.RecordFetch(outcome, string(kind), duration, len(entities))

	fields := []zap.Field{
		zap.Int("limit", limit),
		zap.String("outcome", outcome),
		zap.Duration("duration", duration),
	}
	switch outcome {
	case model.OutcomeSuccess:
		s.logger.Info("list fetched", append(fields, zap.Int("count", len(entities)), zap.Int("drift", drift))...)
	case model.OutcomeCanceled:
		s.logger.Debug("list fetch canceled", fields...)
	default:
		s.logger.Warn("list fetch failed", append(fields, zap.String("kind", string(kind)), zap.Int("status", status), zap.Error(err))...)
	}

	if s.recorder != nil {
		record := &model.FetchRecord{
			StartedAt:  started.UTC(),
			DurationMS: duration.Milliseconds(),
			Limit:      limit,
			Outcome:    outcome,
			ErrorKind:  string(kind),
			StatusCode: status,
			Count:      len(entities),
			Drift:      drift,
		}
		if err != nil {
			record.Error = truncate(err.Error(), 512)
		}
		// The request context may already be canceled; the audit row is still written.
		if rerr := s.recorder.RecordFetch(context.WithoutCancel(ctx), record); rerr != nil {
			s.logger.Warn("failed to record fetch", zap.Error(rerr))
		}
	}

	if s.alerter != nil && outcome == model.OutcomeFailure {
		s.alerter.Dispatch(notification.Alert{
			Kind:       string(kind),
			StatusCode: status,
			Message:    err.Error(),
			At:         started.UTC(),
		})
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
