package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleSeller UserRole = "seller"
	RoleBuyer  UserRole = "buyer"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name"`
	Email        string         `json:"email" gorm:"unique"`
	PasswordHash string         `json:"-"`
	GoogleID     string         `json:"-" gorm:"index"`
	Phone        string         `json:"phone"`
	Role         UserRole       `json:"role" gorm:"default:buyer"`
	IsVerified   bool           `json:"is_verified"`
	OTP          string         `json:"-"`
	OTPExpiresAt *time.Time     `json:"-"`
	Seller       *Seller        `json:"seller,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// HasCredential reports whether the account carries at least one way to sign
// in. A user row must hold a password hash or a linked Google identity.
func (u *User) HasCredential() bool {
	return u.PasswordHash != "" || u.GoogleID != ""
}

// OTPMatches reports whether code matches the outstanding verification code
// and the code has not expired. An empty stored OTP never matches.
func (u *User) OTPMatches(code string, now time.Time) bool {
	if u.OTP == "" || u.OTP != code {
		return false
	}
	return u.OTPExpiresAt != nil && now.Before(*u.OTPExpiresAt)
}
