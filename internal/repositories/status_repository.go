package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Newbhjj2222/Litechat/internal/models"
)

var ErrStatusNotFound = errors.New("status not found")

// StatusRepository abstracts status persistence.
type StatusRepository interface {
	CreateStatus(ctx context.Context, userID int, content string, expiresAt time.Time) (models.Status, error)
	GetStatus(ctx context.Context, statusID int) (models.Status, error)
	ListActiveStatuses(ctx context.Context, now time.Time) ([]models.Status, error)
	ListAllStatuses(ctx context.Context) ([]models.Status, error)
	DeleteStatus(ctx context.Context, statusID int) error
	AddStatusView(ctx context.Context, statusID int, viewerID int) (models.StatusView, error)
}

// StatusRepo is a sqlx implementation of StatusRepository.
type StatusRepo struct {
	db *sqlx.DB
}

// NewStatusRepo constructs a StatusRepo.
func NewStatusRepo(db *sqlx.DB) *StatusRepo {
	return &StatusRepo{db: db}
}

// CreateStatus stores a status with its precomputed expiry timestamp.
func (r *StatusRepo) CreateStatus(ctx context.Context, userID int, content string, expiresAt time.Time) (models.Status, error) {
	var status models.Status
	err := r.db.QueryRowxContext(ctx, `INSERT INTO statuses (user_id, content, expires_at) VALUES ($1, $2, $3) RETURNING id, user_id, content, created_at, expires_at`, userID, content, expiresAt).
		Scan(&status.ID, &status.UserID, &status.Content, &status.CreatedAt, &status.ExpiresAt)
	return status, err
}

// GetStatus retrieves a single status.
func (r *StatusRepo) GetStatus(ctx context.Context, statusID int) (models.Status, error) {
	var status models.Status
	err := r.db.GetContext(ctx, &status, `SELECT id, user_id, content, created_at, expires_at FROM statuses WHERE id=$1`, statusID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Status{}, ErrStatusNotFound
	}
	return status, err
}

// ListActiveStatuses returns statuses that have not yet expired at now.
func (r *StatusRepo) ListActiveStatuses(ctx context.Context, now time.Time) ([]models.Status, error) {
	var statuses []models.Status
	err := r.db.SelectContext(ctx, &statuses, `SELECT id, user_id, content, created_at, expires_at FROM statuses WHERE expires_at > $1 ORDER BY created_at DESC`, now)
	return statuses, err
}

// ListAllStatuses returns every stored status for the expiry sweep.
func (r *StatusRepo) ListAllStatuses(ctx context.Context) ([]models.Status, error) {
	var statuses []models.Status
	err := r.db.SelectContext(ctx, &statuses, `SELECT id, user_id, content, created_at, expires_at FROM statuses ORDER BY id ASC`)
	return statuses, err
}

// DeleteStatus removes a status and, via cascade, its view records.
func (r *StatusRepo) DeleteStatus(ctx context.Context, statusID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM statuses WHERE id=$1`, statusID)
	return err
}

// AddStatusView appends a view record. Views are not deduplicated.
func (r *StatusRepo) AddStatusView(ctx context.Context, statusID int, viewerID int) (models.StatusView, error) {
	var view models.StatusView
	err := r.db.QueryRowxContext(ctx, `INSERT INTO status_views (status_id, viewer_id) VALUES ($1, $2) RETURNING id, status_id, viewer_id, viewed_at`, statusID, viewerID).
		Scan(&view.ID, &view.StatusID, &view.ViewerID, &view.ViewedAt)
	return view, err
}
