package domain

import "context"

// ServicePort defines the service contract for the catalog
type ServicePort interface {
	Browse(ctx context.Context, q Query) ([]Item, error)
}
