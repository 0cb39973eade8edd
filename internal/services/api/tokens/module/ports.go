package module

import (
	"context"

	tokensdom "pincast/internal/services/api/tokens/domain"
	tsvc "pincast/internal/services/api/tokens/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptTokensPort exposes service methods as module ports for cross-module usage
type adaptTokensPort struct{ svc tsvc.Service }

// Issue implements the domain ServicePort interface
func (a adaptTokensPort) Issue(ctx context.Context, in tokensdom.IssueInput) (tokensdom.IssueOutput, error) {
	return a.svc.Issue(ctx, in)
}
