package model

import "time"

// BlockedUser is an identity denied access regardless of its
// registration state.
type BlockedUser struct {
	ID         int64
	TelegramID int64
	FullName   string
	Username   string
	Reason     string
	BlockedAt  time.Time
	BlockedBy  int64
}
