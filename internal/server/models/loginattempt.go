package models

import "time"

// Column limits shared by the schema and the service.
const (
	MaxLoginLength     = 200
	MaxRemoteIPLength  = 100
	MaxUserAgentLength = 512
)

// LoginAttempt is one append-only audit entry. It is recorded whether or not
// the login resolved to an account. Empty RemoteIP or UserAgent means the
// transport did not provide the value.
type LoginAttempt struct {
	ID              int64     `json:"id,omitempty"`
	Login           string    `json:"login"`
	LoginNormalized string    `json:"login_normalized"`
	Success         bool      `json:"success"`
	RemoteIP        string    `json:"remote_ip,omitempty"`
	UserAgent       string    `json:"user_agent,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
