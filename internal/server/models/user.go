package models

import "time"

// User is the credential record. PasswordHash and the reset token columns
// never leave the server: they are tagged out of JSON.
type User struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	PhoneNumber      *string    `json:"phone_number"`
	ResetTokenHash   *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HasResetToken reports whether a reset token hash and expiry are on file.
func (u *User) HasResetToken() bool {
	return u.ResetTokenHash != nil && *u.ResetTokenHash != "" && u.ResetTokenExpiry != nil
}

// UserRef is the small projection of a user embedded in related records.
type UserRef struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
