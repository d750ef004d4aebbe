package model

import "time"

// User is an authentication principal. Write endpoints require a valid
// access token issued for a user row.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// LoginRequest carries the credentials for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse returns the short-lived access token. The refresh token
// travels only in an HttpOnly cookie and never appears in a body.
type TokenResponse struct {
	Access string `json:"access"`
}
