package domain

import "context"

// RecorderPort is the narrow append surface other modules consume for audits
type RecorderPort interface {
	Record(ctx context.Context, ev Event) error
}

// ServicePort defines the service contract for analytics
type ServicePort interface {
	RecorderPort

	// Sessions7d returns the trailing 7 day session_start count for one app.
	// Served from the weekly aggregate, so it can lag by up to the refresh
	// interval
	Sessions7d(ctx context.Context, appID string) (int64, error)

	// RefreshWeekly rebuilds the weekly aggregate
	RefreshWeekly(ctx context.Context) (RefreshOutput, error)
}
