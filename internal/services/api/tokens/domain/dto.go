// Package domain holds DTOs for the tokens http and service contracts
package domain

import "context"

// IssueInput is the body accepted by the app token endpoint
type IssueInput struct {
	IDToken string `json:"idToken" validate:"required"`
	AppID   string `json:"appId" validate:"required,uuid" example:"6f1c2a34-0b7d-4c11-9a89-3d2f6f1f2b10"`
}

// IssueOutput carries a freshly minted app session token
type IssueOutput struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn" example:"3600"`
}

// ServicePort defines the service contract for tokens
type ServicePort interface {
	// Issue exchanges a verified identity token for an app-scoped session token
	Issue(ctx context.Context, in IssueInput) (IssueOutput, error)
}
