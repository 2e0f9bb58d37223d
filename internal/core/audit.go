package core

import "time"

type AuditEntry struct {
	// ID is the unique request ID (X-Correlation-ID)
	ID string `json:"id"`

	// Time is the timestamp of the event
	Time time.Time `json:"time"`

	// Action describing what happened (e.g. "auth.allow", "mail.sent")
	Action string `json:"action"`

	// Subject identifies who made the request, if the gate verified one
	Subject string `json:"subject,omitempty"`

	// Route is the route name the decision was made for
	Route string `json:"route,omitempty"`

	// Error holds the short failure description, if any
	Error string `json:"error,omitempty"`

	// Metadata contains extra details (e.g. credential source, recipients)
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	GetRecent(limit int) ([]AuditEntry, error)
	Close() error
}
