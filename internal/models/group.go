package models

import "time"

// Group represents a chat group.
type Group struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	OwnerID   int       `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GroupMember is one user's membership in a group.
type GroupMember struct {
	GroupID  int  `db:"group_id" json:"group_id"`
	UserID   int  `db:"user_id" json:"user_id"`
	IsAdmin  bool `db:"is_admin" json:"is_admin"`
	CanWrite bool `db:"can_write" json:"can_write"`
}
