package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/Newbhjj2222/Litechat/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository tracks direct conversations between user pairs.
type ConversationRepository interface {
	GetOrCreateConversation(ctx context.Context, userID int, friendID int) (models.Conversation, error)
	TouchConversation(ctx context.Context, conversationID int) error
	ListConversationsForUser(ctx context.Context, userID int) ([]models.Conversation, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// GetOrCreateConversation finds the conversation for a user pair regardless
// of argument order, creating it if absent. The pair is stored sorted
// ascending so the lookup stays unordered even though direct chat keys are
// order-sensitive.
func (r *ConversationRepo) GetOrCreateConversation(ctx context.Context, userID int, friendID int) (models.Conversation, error) {
	if userID == friendID {
		return models.Conversation{}, errors.New("cannot create conversation with self")
	}
	participants := []int{userID, friendID}
	sort.Ints(participants)
	user1, user2 := participants[0], participants[1]

	var convo models.Conversation
	query := `SELECT id, user1_id, user2_id, created_at, last_message_at FROM conversations WHERE user1_id=$1 AND user2_id=$2`
	if err := r.db.GetContext(ctx, &convo, query, user1, user2); err != nil {
		if err != sql.ErrNoRows {
			return models.Conversation{}, err
		}
		if err := r.db.QueryRowxContext(ctx, `INSERT INTO conversations (user1_id, user2_id) VALUES ($1, $2) RETURNING id, user1_id, user2_id, created_at, last_message_at`, user1, user2).
			Scan(&convo.ID, &convo.User1ID, &convo.User2ID, &convo.CreatedAt, &convo.LastMessageAt); err != nil {
			return models.Conversation{}, err
		}
	}
	return convo, nil
}

// TouchConversation bumps the last-activity timestamp.
func (r *ConversationRepo) TouchConversation(ctx context.Context, conversationID int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations SET last_message_at = NOW() WHERE id=$1`, conversationID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// ListConversationsForUser returns the user's conversations, most recently
// active first.
func (r *ConversationRepo) ListConversationsForUser(ctx context.Context, userID int) ([]models.Conversation, error) {
	var convos []models.Conversation
	err := r.db.SelectContext(ctx, &convos, `SELECT id, user1_id, user2_id, created_at, last_message_at FROM conversations WHERE user1_id=$1 OR user2_id=$1 ORDER BY last_message_at DESC`, userID)
	return convos, err
}
