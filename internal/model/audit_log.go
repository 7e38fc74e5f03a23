package model

import "time"

// AuditLog is a best-effort trail entry. Writes go through a Redis queue and
// a background worker; a lost entry never fails the request that emitted it.
type AuditLog struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
