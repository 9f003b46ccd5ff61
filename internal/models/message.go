package models

import "time"

// Message represents a chat message. A message belongs to exactly one chat
// key, fixed at creation; only the read and deleted flags mutate afterwards.
type Message struct {
	ID        int       `db:"id" json:"id"`
	ChatKey   string    `db:"chat_key" json:"chat_key"`
	SenderID  int       `db:"sender_id" json:"sender_id"`
	Content   string    `db:"content" json:"content"`
	Read      bool      `db:"read" json:"read"`
	Deleted   bool      `db:"deleted" json:"deleted"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
