package module

import (
	"context"

	reviewdom "pincast/internal/services/api/review/domain"
	rsvc "pincast/internal/services/api/review/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptReviewPort exposes service methods as module ports for cross-module usage
type adaptReviewPort struct{ svc rsvc.Service }

// Queue implements the domain ServicePort interface
func (a adaptReviewPort) Queue(ctx context.Context) (reviewdom.QueueOutput, error) {
	return a.svc.Queue(ctx)
}

// Detail implements the domain ServicePort interface
func (a adaptReviewPort) Detail(ctx context.Context, appID string) (reviewdom.AppDetail, error) {
	return a.svc.Detail(ctx, appID)
}

// Transition implements the domain ServicePort interface
func (a adaptReviewPort) Transition(
	ctx context.Context,
	appID string,
	actor reviewdom.Actor,
	in reviewdom.TransitionInput,
) (reviewdom.TransitionOutput, error) {
	return a.svc.Transition(ctx, appID, actor, in)
}

// Rollback implements the domain ServicePort interface
func (a adaptReviewPort) Rollback(
	ctx context.Context,
	appID string,
	actor reviewdom.Actor,
	in reviewdom.RollbackInput,
) (reviewdom.RollbackOutput, error) {
	return a.svc.Rollback(ctx, appID, actor, in)
}
