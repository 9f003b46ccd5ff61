package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/Newbhjj2222/Litechat/internal/models"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrMemberNotFound = errors.New("group member not found")
)

// GroupRepository abstracts group and membership persistence.
type GroupRepository interface {
	CreateGroup(ctx context.Context, ownerID int, name string, memberIDs []int) (models.Group, error)
	GetGroup(ctx context.Context, groupID int) (models.Group, error)
	GetGroupMembers(ctx context.Context, groupID int) ([]models.GroupMember, error)
	GetMember(ctx context.Context, groupID int, userID int) (models.GroupMember, error)
	AddMember(ctx context.Context, groupID int, userID int, isAdmin bool, canWrite bool) (models.GroupMember, error)
	UpdateMember(ctx context.Context, groupID int, userID int, isAdmin bool, canWrite bool) (models.GroupMember, error)
	IsMember(ctx context.Context, groupID int, userID int) (bool, error)
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// CreateGroup creates a group and its members atomically. The owner is
// always included as an admin member with write permission.
func (r *GroupRepo) CreateGroup(ctx context.Context, ownerID int, name string, memberIDs []int) (models.Group, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Group{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var group models.Group
	if err = tx.QueryRowxContext(ctx, `INSERT INTO groups (name, owner_id) VALUES ($1, $2) RETURNING id, name, owner_id, created_at`, name, ownerID).
		Scan(&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt); err != nil {
		return models.Group{}, err
	}

	// dedupe members; the owner is inserted separately with admin rights
	memberSet := map[int]struct{}{}
	for _, id := range memberIDs {
		if id != ownerID {
			memberSet[id] = struct{}{}
		}
	}
	ids := make([]int, 0, len(memberSet))
	for id := range memberSet {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	if _, err = tx.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id, is_admin, can_write) VALUES ($1, $2, TRUE, TRUE)`, group.ID, ownerID); err != nil {
		return models.Group{}, err
	}
	for _, id := range ids {
		if _, err = tx.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id, is_admin, can_write) VALUES ($1, $2, FALSE, TRUE)`, group.ID, id); err != nil {
			return models.Group{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// GetGroup fetches a single group.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `SELECT id, name, owner_id, created_at FROM groups WHERE id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// GetGroupMembers returns the current member list of a group.
func (r *GroupRepo) GetGroupMembers(ctx context.Context, groupID int) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := r.db.SelectContext(ctx, &members, `SELECT group_id, user_id, is_admin, can_write FROM group_members WHERE group_id=$1 ORDER BY user_id ASC`, groupID)
	return members, err
}

// GetMember fetches one membership row.
func (r *GroupRepo) GetMember(ctx context.Context, groupID int, userID int) (models.GroupMember, error) {
	var member models.GroupMember
	err := r.db.GetContext(ctx, &member, `SELECT group_id, user_id, is_admin, can_write FROM group_members WHERE group_id=$1 AND user_id=$2`, groupID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GroupMember{}, ErrMemberNotFound
	}
	return member, err
}

// AddMember inserts a membership row.
func (r *GroupRepo) AddMember(ctx context.Context, groupID int, userID int, isAdmin bool, canWrite bool) (models.GroupMember, error) {
	var member models.GroupMember
	err := r.db.QueryRowxContext(ctx, `INSERT INTO group_members (group_id, user_id, is_admin, can_write) VALUES ($1, $2, $3, $4) RETURNING group_id, user_id, is_admin, can_write`, groupID, userID, isAdmin, canWrite).
		Scan(&member.GroupID, &member.UserID, &member.IsAdmin, &member.CanWrite)
	return member, err
}

// UpdateMember changes a member's permissions.
func (r *GroupRepo) UpdateMember(ctx context.Context, groupID int, userID int, isAdmin bool, canWrite bool) (models.GroupMember, error) {
	var member models.GroupMember
	err := r.db.QueryRowxContext(ctx, `UPDATE group_members SET is_admin=$3, can_write=$4 WHERE group_id=$1 AND user_id=$2 RETURNING group_id, user_id, is_admin, can_write`, groupID, userID, isAdmin, canWrite).
		Scan(&member.GroupID, &member.UserID, &member.IsAdmin, &member.CanWrite)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GroupMember{}, ErrMemberNotFound
	}
	return member, err
}

// IsMember checks membership.
func (r *GroupRepo) IsMember(ctx context.Context, groupID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id=$1 AND user_id=$2)`, groupID, userID)
	return exists, err
}
