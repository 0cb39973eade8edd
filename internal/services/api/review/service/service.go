// Package service contains the staff review workflows
package service

import (
	"context"
	"errors"
	"fmt"

	"pincast/internal/core/lifecycle"
	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/platform/logger"
	analyticsdom "pincast/internal/services/api/analytics/domain"
	"pincast/internal/services/api/review/domain"
	"pincast/internal/services/api/review/repo"
)

// Service defines the service contract for review
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	// recorder appends audit events; failures never roll back a decision
	recorder analyticsdom.RecorderPort
}

// New creates a new review service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], recorder analyticsdom.RecorderPort) *Svc {
	if db == nil {
		panic("review.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("review.Service requires a non nil Repo binder")
	}
	if recorder == nil {
		panic("review.Service requires a non nil analytics recorder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, recorder: recorder}
}

// Queue returns the pending and hidden listings awaiting a decision
func (s *Svc) Queue(ctx context.Context) (domain.QueueOutput, error) {
	pending, err := s.Repo.ByState(ctx, string(lifecycle.StatePending))
	if err != nil {
		return domain.QueueOutput{}, err
	}
	hidden, err := s.Repo.ByState(ctx, string(lifecycle.StateHidden))
	if err != nil {
		return domain.QueueOutput{}, err
	}
	// both groups serialize as arrays even when empty
	if pending == nil {
		pending = []domain.AppSummary{}
	}
	if hidden == nil {
		hidden = []domain.AppSummary{}
	}
	return domain.QueueOutput{Pending: pending, Hidden: hidden}, nil
}

// Detail returns one listing with its owner and full version history
func (s *Svc) Detail(ctx context.Context, appID string) (domain.AppDetail, error) {
	d, err := s.Repo.Detail(ctx, appID)
	if err != nil {
		return domain.AppDetail{}, err
	}
	versions, err := s.Repo.VersionsByApp(ctx, appID)
	if err != nil {
		return domain.AppDetail{}, err
	}
	if versions == nil {
		versions = []domain.VersionInfo{}
	}
	d.Versions = versions
	return d, nil
}

// Transition moves a listing between lifecycle states.
// The guard runs before any mutation and from==to is always rejected
func (s *Svc) Transition(
	ctx context.Context,
	appID string,
	actor domain.Actor,
	in domain.TransitionInput,
) (domain.TransitionOutput, error) {
	app, err := s.Repo.AppByID(ctx, appID)
	if err != nil {
		return domain.TransitionOutput{}, err
	}

	from, to := lifecycle.State(app.State), lifecycle.State(in.State)
	if err := lifecycle.Check(from, to); err != nil {
		return domain.TransitionOutput{}, err
	}

	updated, err := s.Repo.UpdateStateFrom(ctx, appID, string(from), in.State)
	if errors.Is(err, repo.ErrStaleState) {
		// a concurrent decision moved the listing first; re-check against the
		// fresh state so the caller sees the transition that actually failed
		cur, cerr := s.Repo.AppByID(ctx, appID)
		if cerr != nil {
			return domain.TransitionOutput{}, cerr
		}
		if err := lifecycle.Check(lifecycle.State(cur.State), to); err != nil {
			return domain.TransitionOutput{}, err
		}
		return domain.TransitionOutput{}, perr.InvalidTransitionf(
			"Invalid state transition from '%s' to '%s'", cur.State, string(to))
	}
	if err != nil {
		return domain.TransitionOutput{}, err
	}

	reason := in.Reason
	if reason == "" {
		reason = "Changed by staff " + s.actorLabel(ctx, actor)
	}
	s.audit(ctx, analyticsdom.Event{
		AppID:  appID,
		UserID: actor.ID,
		Name:   analyticsdom.EventStateChange,
		Metadata: map[string]any{
			"fromState": string(from),
			"toState":   string(to),
			"reason":    reason,
		},
	})

	return domain.TransitionOutput{
		Success: true,
		App:     updated,
		Message: fmt.Sprintf("App state changed from '%s' to '%s'", from, to),
	}, nil
}

// Rollback republishes a listing at one of its existing versions.
// The state is forced to published regardless of the transition table
func (s *Svc) Rollback(
	ctx context.Context,
	appID string,
	actor domain.Actor,
	in domain.RollbackInput,
) (domain.RollbackOutput, error) {
	if _, err := s.Repo.AppByID(ctx, appID); err != nil {
		return domain.RollbackOutput{}, err
	}

	versions, err := s.Repo.VersionsByApp(ctx, appID)
	if err != nil {
		return domain.RollbackOutput{}, err
	}
	if len(versions) == 0 {
		return domain.RollbackOutput{}, perr.NotFoundf("No versions found for this app")
	}

	var target *domain.VersionInfo
	for i := range versions {
		if versions[i].ID == in.VersionID {
			target = &versions[i]
			break
		}
	}
	if target == nil {
		return domain.RollbackOutput{}, perr.NotFoundf("Target version not found")
	}

	updated, err := s.Repo.UpdateState(ctx, appID, string(lifecycle.StatePublished))
	if err != nil {
		return domain.RollbackOutput{}, err
	}

	reason := in.Reason
	if reason == "" {
		reason = "Rollback by staff " + s.actorLabel(ctx, actor)
	}
	s.audit(ctx, analyticsdom.Event{
		AppID:  appID,
		UserID: actor.ID,
		Name:   analyticsdom.EventVersionRollback,
		Metadata: map[string]any{
			"versionId": target.ID,
			"semver":    target.Semver,
			"reason":    reason,
		},
	})

	return domain.RollbackOutput{
		Success:   true,
		App:       updated,
		Version:   *target,
		Message:   "Rolled back to version " + target.Semver,
		DeployURL: target.DeployURL,
	}, nil
}

// audit appends one analytics event and only logs on failure
func (s *Svc) audit(ctx context.Context, ev analyticsdom.Event) {
	if err := s.recorder.Record(ctx, ev); err != nil {
		logger.C(ctx).Warn().Err(err).Str("event", ev.Name).Str("app_id", ev.AppID).Msg("audit event write failed")
	}
}

// actorLabel prefers the staff email over the raw account id
func (s *Svc) actorLabel(ctx context.Context, actor domain.Actor) string {
	if actor.Email != "" {
		return actor.Email
	}
	email, err := s.Repo.UserEmail(ctx, actor.ID)
	if err == nil && email != "" {
		return email
	}
	return actor.ID
}
