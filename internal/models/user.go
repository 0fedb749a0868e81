package models

import "time"

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"` // never serialized
	IsVerified   bool   `json:"is_verified"`

	// lockout state, mutated only through the signin path
	FailedAttempts int        `json:"-"`
	LockedUntil    *time.Time `json:"-"`

	// reset_token and reset_token_expiry are both set or both null
	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}
