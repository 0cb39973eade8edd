// Package domain holds DTOs for analytics http and service contracts
package domain

import "time"

// EventSessionStart is the event name popularity counts are built from
const EventSessionStart = "session_start"

// Audit event names appended by the review workflow
const (
	EventStateChange     = "app_state_change"
	EventVersionRollback = "app_version_rollback"
)

// Event is one append-only analytics fact
type Event struct {
	ID       string
	AppID    string
	UserID   string
	Name     string
	TS       time.Time
	Metadata map[string]any
}

// IngestInput is the body accepted by the ingest endpoint
type IngestInput struct {
	Event   string         `json:"event" validate:"required,min=1,max=255" example:"session_start"`
	Payload map[string]any `json:"payload,omitempty"`
}

// IngestOutput acknowledges a recorded event
type IngestOutput struct {
	Success   bool   `json:"success" example:"true"`
	Timestamp string `json:"timestamp" example:"2025-04-01T12:00:00Z"`
}

// RefreshOutput reports a weekly aggregate refresh
type RefreshOutput struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Duration  string `json:"duration"`
}
