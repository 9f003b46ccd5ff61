package models

import "time"

// Conversation tracks last-activity bookkeeping for a direct participant
// pair. The pair is stored sorted ascending so lookup is order-independent.
type Conversation struct {
	ID            int       `db:"id" json:"id"`
	User1ID       int       `db:"user1_id" json:"user1_id"`
	User2ID       int       `db:"user2_id" json:"user2_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	LastMessageAt time.Time `db:"last_message_at" json:"last_message_at"`
}
