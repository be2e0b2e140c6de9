package model

import "time"

// Registration request statuses. Approved and rejected are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// PendingRegistration is a join request awaiting administrator review.
type PendingRegistration struct {
	ID          int64
	TelegramID  int64
	FullName    string
	Username    string
	RequestedAt time.Time
	Status      string
}
