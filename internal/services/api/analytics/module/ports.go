package module

import (
	"context"

	analyticsdom "pincast/internal/services/api/analytics/domain"
	asvc "pincast/internal/services/api/analytics/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptAnalyticsPort exposes service methods as module ports for cross-module usage
type adaptAnalyticsPort struct{ svc asvc.Service }

// Record implements the domain RecorderPort interface
func (a adaptAnalyticsPort) Record(ctx context.Context, ev analyticsdom.Event) error {
	return a.svc.Record(ctx, ev)
}

// Sessions7d implements the domain ServicePort interface
func (a adaptAnalyticsPort) Sessions7d(ctx context.Context, appID string) (int64, error) {
	return a.svc.Sessions7d(ctx, appID)
}

// RefreshWeekly implements the domain ServicePort interface
func (a adaptAnalyticsPort) RefreshWeekly(ctx context.Context) (analyticsdom.RefreshOutput, error) {
	return a.svc.RefreshWeekly(ctx)
}
