package domain

import "time"

type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Logo        string    `json:"logo,omitempty"`
	LeaderID    string    `json:"leader_id"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasActiveLeader is true when membership into the club needs the leader's consent.
func (c *Club) HasActiveLeader() bool {
	return c.Status == StatusApproved && c.LeaderID != ""
}

type Membership struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	ClubID   string    `json:"club_id"`
	JoinedAt time.Time `json:"joined_at"`
}
