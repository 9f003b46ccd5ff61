package models

import "time"

// Status is an ephemeral post visible to everyone until it expires.
// ExpiresAt is always CreatedAt plus the configured TTL, set once at insert.
type Status struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// StatusView records one viewer having seen one status. Append-only and not
// deduplicated: repeated views by the same viewer produce multiple records.
type StatusView struct {
	ID       int       `db:"id" json:"id"`
	StatusID int       `db:"status_id" json:"status_id"`
	ViewerID int       `db:"viewer_id" json:"viewer_id"`
	ViewedAt time.Time `db:"viewed_at" json:"viewed_at"`
}
