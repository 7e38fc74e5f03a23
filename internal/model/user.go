package model

import "time"

// Role distinguishes test-takers from administrators.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User represents an account in the exam system. Category is the staff
// category ("nurse", "doctor", ...) that papers are targeted at.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=2,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}
