package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Newbhjj2222/Litechat/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, chatKey string, senderID int, content string) (models.Message, error)
	GetMessagesByChat(ctx context.Context, chatKey string, limit int) ([]models.Message, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	MarkMessageRead(ctx context.Context, messageID int) error
	SoftDeleteMessage(ctx context.Context, messageID int) error
	ListAllMessages(ctx context.Context) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a message under its chat key.
func (r *MessageRepo) CreateMessage(ctx context.Context, chatKey string, senderID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (chat_key, sender_id, content) VALUES ($1, $2, $3) RETURNING id, chat_key, sender_id, content, read, deleted, created_at`, chatKey, senderID, content).
		Scan(&msg.ID, &msg.ChatKey, &msg.SenderID, &msg.Content, &msg.Read, &msg.Deleted, &msg.CreatedAt)
	return msg, err
}

// GetMessagesByChat returns the most recent non-deleted messages of a chat
// in chronological order.
func (r *MessageRepo) GetMessagesByChat(ctx context.Context, chatKey string, limit int) ([]models.Message, error) {
	query := `SELECT id, chat_key, sender_id, content, read, deleted, created_at FROM (
            SELECT id, chat_key, sender_id, content, read, deleted, created_at
            FROM messages
            WHERE chat_key=$1 AND deleted = FALSE
            ORDER BY created_at DESC
            LIMIT $2
        ) recent ORDER BY created_at ASC`
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, query, chatKey, limit)
	return msgs, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT id, chat_key, sender_id, content, read, deleted, created_at FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// MarkMessageRead flips the read flag.
func (r *MessageRepo) MarkMessageRead(ctx context.Context, messageID int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET read = TRUE WHERE id=$1`, messageID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// SoftDeleteMessage marks a message deleted without removing the row.
func (r *MessageRepo) SoftDeleteMessage(ctx context.Context, messageID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET deleted = TRUE WHERE id=$1`, messageID)
	return err
}

// ListAllMessages returns every stored message. Used by the expiry sweep,
// which scans the full set on each tick.
func (r *MessageRepo) ListAllMessages(ctx context.Context) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT id, chat_key, sender_id, content, read, deleted, created_at FROM messages ORDER BY id ASC`)
	return msgs, err
}
