// Package service contains the analytics workflows
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pincast/internal/modkit/repokit"
	"pincast/internal/platform/logger"
	"pincast/internal/platform/store"
	"pincast/internal/services/api/analytics/domain"
	"pincast/internal/services/api/analytics/repo"
)

// chTable is the ClickHouse mirror table for long-horizon event queries
const chTable = "pincast.analytics_events"

// Service defines the service contract for analytics
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	// ch mirrors events for columnar analysis; nil disables the mirror
	ch store.Clickhouse
}

// chEvent is the mirror row shape
type chEvent struct {
	ID     string    `ch:"id"`
	AppID  string    `ch:"app_id"`
	UserID string    `ch:"user_id"`
	Event  string    `ch:"event"`
	TS     time.Time `ch:"ts"`
}

// New creates a new analytics service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], ch store.Clickhouse) *Svc {
	if db == nil {
		panic("analytics.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("analytics.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, ch: ch}
}

// Record appends one event. The Postgres write is authoritative and its
// failure propagates; the ClickHouse mirror is best effort and only logged
func (s *Svc) Record(ctx context.Context, ev domain.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	if err := s.Repo.Insert(ctx, ev); err != nil {
		return err
	}

	if s.ch != nil {
		row := chEvent{ID: ev.ID, AppID: ev.AppID, UserID: ev.UserID, Event: ev.Name, TS: ev.TS}
		if err := s.ch.Insert(ctx, chTable, &row); err != nil {
			logger.C(ctx).Warn().Err(err).Str("event", ev.Name).Msg("clickhouse mirror write failed")
		}
	}
	return nil
}

// Sessions7d returns the trailing 7 day session_start count for one app
func (s *Svc) Sessions7d(ctx context.Context, appID string) (int64, error) {
	return s.Repo.Sessions7d(ctx, appID)
}

// RefreshWeekly rebuilds the weekly aggregate and reports timing
func (s *Svc) RefreshWeekly(ctx context.Context) (domain.RefreshOutput, error) {
	start := time.Now()
	if err := s.Repo.RefreshWeekly(ctx); err != nil {
		return domain.RefreshOutput{}, err
	}
	d := time.Since(start)
	logger.C(ctx).Info().Dur("duration", d).Msg("weekly analytics aggregate refreshed")
	return domain.RefreshOutput{
		Success:   true,
		Message:   "Analytics aggregate refreshed successfully",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  d.String(),
	}, nil
}
