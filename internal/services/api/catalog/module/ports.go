package module

import (
	"context"

	catalogdom "pincast/internal/services/api/catalog/domain"
	catalogsvc "pincast/internal/services/api/catalog/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptCatalogPort adapts the catalog service to the domain port interface
type adaptCatalogPort struct{ svc catalogsvc.Service }

// Browse implements the domain ServicePort interface
func (a adaptCatalogPort) Browse(ctx context.Context, q catalogdom.Query) ([]catalogdom.Item, error) {
	return a.svc.Browse(ctx, q)
}
