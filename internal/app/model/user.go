package model

import (
	"time"
)

// User is the single durable account record. The password-reset code and
// its expiry live inline so that issuing and consuming a code are single
// row updates.
type User struct {
	ID                 uint       `gorm:"primarykey" json:"id"`
	Email              string     `gorm:"uniqueIndex;not null" json:"email"`
	Name               string     `json:"name"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	ResetCode          *string    `gorm:"size:6" json:"-"`
	ResetCodeExpiresAt *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasPendingReset reports whether a reset code is currently stored,
// regardless of expiry.
func (u *User) HasPendingReset() bool {
	return u.ResetCode != nil && u.ResetCodeExpiresAt != nil
}
