package domain

// Status is the shared approval lifecycle of clubs, events and approval records.
// The only legal transitions are pending -> approved and pending -> rejected.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether a lifecycle may move from s to next.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && (next == StatusApproved || next == StatusRejected)
}
