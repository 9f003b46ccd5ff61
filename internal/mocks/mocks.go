package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Newbhjj2222/Litechat/internal/models"
	"github.com/Newbhjj2222/Litechat/internal/repositories"
)

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, chatKey string, senderID int, content string) (models.Message, error) {
	args := m.Called(ctx, chatKey, senderID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessagesByChat(ctx context.Context, chatKey string, limit int) ([]models.Message, error) {
	args := m.Called(ctx, chatKey, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) MarkMessageRead(ctx context.Context, messageID int) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) SoftDeleteMessage(ctx context.Context, messageID int) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) ListAllMessages(ctx context.Context) ([]models.Message, error) {
	args := m.Called(ctx)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type StatusRepositoryMock struct {
	mock.Mock
}

func (m *StatusRepositoryMock) CreateStatus(ctx context.Context, userID int, content string, expiresAt time.Time) (models.Status, error) {
	args := m.Called(ctx, userID, content, expiresAt)
	var status models.Status
	if val := args.Get(0); val != nil {
		status = val.(models.Status)
	}
	return status, args.Error(1)
}

func (m *StatusRepositoryMock) GetStatus(ctx context.Context, statusID int) (models.Status, error) {
	args := m.Called(ctx, statusID)
	var status models.Status
	if val := args.Get(0); val != nil {
		status = val.(models.Status)
	}
	return status, args.Error(1)
}

func (m *StatusRepositoryMock) ListActiveStatuses(ctx context.Context, now time.Time) ([]models.Status, error) {
	args := m.Called(ctx, now)
	var statuses []models.Status
	if val := args.Get(0); val != nil {
		statuses = val.([]models.Status)
	}
	return statuses, args.Error(1)
}

func (m *StatusRepositoryMock) ListAllStatuses(ctx context.Context) ([]models.Status, error) {
	args := m.Called(ctx)
	var statuses []models.Status
	if val := args.Get(0); val != nil {
		statuses = val.([]models.Status)
	}
	return statuses, args.Error(1)
}

func (m *StatusRepositoryMock) DeleteStatus(ctx context.Context, statusID int) error {
	args := m.Called(ctx, statusID)
	return args.Error(0)
}

func (m *StatusRepositoryMock) AddStatusView(ctx context.Context, statusID int, viewerID int) (models.StatusView, error) {
	args := m.Called(ctx, statusID, viewerID)
	var view models.StatusView
	if val := args.Get(0); val != nil {
		view = val.(models.StatusView)
	}
	return view, args.Error(1)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) CreateGroup(ctx context.Context, ownerID int, name string, memberIDs []int) (models.Group, error) {
	args := m.Called(ctx, ownerID, name, memberIDs)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	args := m.Called(ctx, groupID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) GetGroupMembers(ctx context.Context, groupID int) ([]models.GroupMember, error) {
	args := m.Called(ctx, groupID)
	var members []models.GroupMember
	if val := args.Get(0); val != nil {
		members = val.([]models.GroupMember)
	}
	return members, args.Error(1)
}

func (m *GroupRepositoryMock) GetMember(ctx context.Context, groupID int, userID int) (models.GroupMember, error) {
	args := m.Called(ctx, groupID, userID)
	var member models.GroupMember
	if val := args.Get(0); val != nil {
		member = val.(models.GroupMember)
	}
	return member, args.Error(1)
}

func (m *GroupRepositoryMock) AddMember(ctx context.Context, groupID int, userID int, isAdmin bool, canWrite bool) (models.GroupMember, error) {
	args := m.Called(ctx, groupID, userID, isAdmin, canWrite)
	var member models.GroupMember
	if val := args.Get(0); val != nil {
		member = val.(models.GroupMember)
	}
	return member, args.Error(1)
}

func (m *GroupRepositoryMock) UpdateMember(ctx context.Context, groupID int, userID int, isAdmin bool, canWrite bool) (models.GroupMember, error) {
	args := m.Called(ctx, groupID, userID, isAdmin, canWrite)
	var member models.GroupMember
	if val := args.Get(0); val != nil {
		member = val.(models.GroupMember)
	}
	return member, args.Error(1)
}

func (m *GroupRepositoryMock) IsMember(ctx context.Context, groupID int, userID int) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) GetOrCreateConversation(ctx context.Context, userID int, friendID int) (models.Conversation, error) {
	args := m.Called(ctx, userID, friendID)
	var convo models.Conversation
	if val := args.Get(0); val != nil {
		convo = val.(models.Conversation)
	}
	return convo, args.Error(1)
}

func (m *ConversationRepositoryMock) TouchConversation(ctx context.Context, conversationID int) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) ListConversationsForUser(ctx context.Context, userID int) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	var convos []models.Conversation
	if val := args.Get(0); val != nil {
		convos = val.([]models.Conversation)
	}
	return convos, args.Error(1)
}

var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.StatusRepository = (*StatusRepositoryMock)(nil)
var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
