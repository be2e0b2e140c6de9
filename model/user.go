package model

import "time"

// User is an approved employee who submits daily reports.
type User struct {
	ID         int64
	TelegramID int64
	FullName   string
	Username   string
	IsAdmin    bool
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserPatch enumerates the user fields that may be updated.
// Nil fields are left untouched.
type UserPatch struct {
	FullName *string
	Username *string
	IsAdmin  *bool
	IsActive *bool
}
