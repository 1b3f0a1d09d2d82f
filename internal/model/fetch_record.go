package model

import "time"

// Fetch outcomes recorded in FetchRecord.Outcome.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeCanceled = "canceled"
)

// FetchRecord is the audit row written for every list fetch attempt.
type FetchRecord struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	StartedAt  time.Time `gorm:"not null;index" json:"startedAt"`
	DurationMS int64     `gorm:"not null" json:"durationMs"`
	Limit      int       `gorm:"not null" json:"limit"`
	Outcome    string    `gorm:"size:16;not null;index" json:"outcome"`
	ErrorKind  string    `gorm:"size:32" json:"errorKind,omitempty"`
	StatusCode int       `json:"statusCode,omitempty"`
	Count      int       `gorm:"not null" json:"count"`
	Drift      int       `gorm:"not null" json:"drift"` // records whose positional id differs from the upstream id
	Error      string    `gorm:"size:512" json:"error,omitempty"`
}
