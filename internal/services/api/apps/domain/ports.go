package domain

import "context"

// ServicePort defines the service contract for apps
type ServicePort interface {
	// PublicDetail returns the public view of a published listing by slug
	PublicDetail(ctx context.Context, slug string) (PublicDetail, error)

	// Submit upserts a listing from CI and appends an immutable version
	Submit(ctx context.Context, developerID string, in SubmitInput) (SubmitOutput, error)
}
