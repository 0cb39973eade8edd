package module

import (
	"context"

	appsdom "pincast/internal/services/api/apps/domain"
	asvc "pincast/internal/services/api/apps/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptAppsPort exposes service methods as module ports for cross-module usage
type adaptAppsPort struct{ svc asvc.Service }

// PublicDetail implements the domain ServicePort interface
func (a adaptAppsPort) PublicDetail(ctx context.Context, slug string) (appsdom.PublicDetail, error) {
	return a.svc.PublicDetail(ctx, slug)
}

// Submit implements the domain ServicePort interface
func (a adaptAppsPort) Submit(ctx context.Context, developerID string, in appsdom.SubmitInput) (appsdom.SubmitOutput, error) {
	return a.svc.Submit(ctx, developerID, in)
}
