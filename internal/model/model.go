// Package model defines domain entities used by services and repositories.
package model

import "time"

// Message is a single message of the day. Immutable once stored.
type Message struct {
	ID        int64     // assigned by the store, strictly increasing
	Text      string    // non-empty
	Creator   string    // userid of the authenticated writer
	CreatedAt time.Time // assigned at append time
}

// User is a statically configured writer.
type User struct {
	ID           string
	SharedSecret string
}

// RejectReason names why a write was not authenticated.
type RejectReason string

// RejectInvalidCredentials is the only reason exposed to callers.
const RejectInvalidCredentials RejectReason = "invalid-credentials"

// Verdict is the outcome of an authentication check:
// Authenticated(UserID) or Rejected(Reason). Never persisted.
type Verdict struct {
	UserID string
	Reason RejectReason
}

// Authenticated builds a successful verdict for userID.
func Authenticated(userID string) Verdict { return Verdict{UserID: userID} }

// Rejected builds a failed verdict.
func Rejected(reason RejectReason) Verdict { return Verdict{Reason: reason} }

// OK reports whether the verdict is Authenticated.
func (v Verdict) OK() bool { return v.Reason == "" && v.UserID != "" }
