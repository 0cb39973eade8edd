// Package domain holds DTOs for review http and service contracts
package domain

import "time"

// Owner identifies the developer account behind a listing
type Owner struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// VersionInfo is one immutable build of an app
type VersionInfo struct {
	ID           string    `json:"id"`
	Semver       string    `json:"semver"`
	DeployURL    string    `json:"deployUrl"`
	Changelog    string    `json:"changelog,omitempty"`
	QualityScore *int      `json:"qualityScore"`
	RepoURL      string    `json:"repoUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// App is the listing row as review endpoints return it
type App struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	HeroURL    string    `json:"heroUrl,omitempty"`
	State      string    `json:"state"`
	Category   string    `json:"category,omitempty"`
	IsPaid     bool      `json:"isPaid"`
	PriceCents int       `json:"priceCents"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AppSummary is a queue row with its owner and most recent version
type AppSummary struct {
	App
	Owner         Owner        `json:"owner"`
	LatestVersion *VersionInfo `json:"latestVersion"`
}

// AppDetail is the full review view of one listing
type AppDetail struct {
	App
	Latitude   float64       `json:"latitude"`
	Longitude  float64       `json:"longitude"`
	GeoRadiusM float64       `json:"geoRadiusM"`
	Owner      Owner         `json:"owner"`
	Versions   []VersionInfo `json:"versions"`
}

// QueueOutput groups the listings awaiting a staff decision
type QueueOutput struct {
	Pending []AppSummary `json:"pending"`
	Hidden  []AppSummary `json:"hidden"`
}

// TransitionInput is the body accepted by the state endpoint
type TransitionInput struct {
	State  string `json:"state" validate:"required,oneof=pending published rejected hidden" example:"published"`
	Reason string `json:"reason,omitempty" example:"Looks good"`
}

// TransitionOutput reports a completed state change
type TransitionOutput struct {
	Success bool   `json:"success"`
	App     App    `json:"app"`
	Message string `json:"message"`
}

// RollbackInput is the body accepted by the rollback endpoint
type RollbackInput struct {
	VersionID string `json:"versionId" validate:"required,uuid" example:"6f1c2a34-0b7d-4c11-9a89-3d2f6f1f2b10"`
	Reason    string `json:"reason,omitempty" example:"Regression in latest build"`
}

// RollbackOutput reports a completed rollback
type RollbackOutput struct {
	Success   bool        `json:"success"`
	App       App         `json:"app"`
	Version   VersionInfo `json:"version"`
	Message   string      `json:"message"`
	DeployURL string      `json:"deployUrl"`
}
