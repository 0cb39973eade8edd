package domain

import "context"

// Actor is the staff account performing a review action
type Actor struct {
	ID    string
	Email string
}

// ServicePort defines the service contract for review
type ServicePort interface {
	// Queue returns the pending and hidden listings awaiting a decision
	Queue(ctx context.Context) (QueueOutput, error)

	// Detail returns one listing with its owner and full version history
	Detail(ctx context.Context, appID string) (AppDetail, error)

	// Transition moves a listing between lifecycle states
	Transition(ctx context.Context, appID string, actor Actor, in TransitionInput) (TransitionOutput, error)

	// Rollback republishes a listing at one of its existing versions
	Rollback(ctx context.Context, appID string, actor Actor, in RollbackInput) (RollbackOutput, error)
}
