package domain

import "time"

// JoinRequest is a pending membership application. It is deleted once the
// club leader resolves it, whatever the outcome.
type JoinRequest struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ClubID      string    `json:"club_id"`
	RequestedAt time.Time `json:"requested_at"`
}
