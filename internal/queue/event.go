// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records referral signups.
package queue

// MemberRegisteredEvent is published when a registration completes. It
// carries enough for downstream consumers to log or notify without querying
// the primary database.
type MemberRegisteredEvent struct {
	MemberID     uint64  `json:"member_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	ParentID     *uint64 `json:"parent_id,omitempty"`
	ReferralCode string  `json:"referral_code"`
	RegisteredAt string  `json:"registered_at"`
}
