package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Newbhjj2222/Litechat/internal/mocks"
	"github.com/Newbhjj2222/Litechat/internal/models"
	"github.com/Newbhjj2222/Litechat/internal/repositories"
	"github.com/Newbhjj2222/Litechat/internal/ws"
)

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/chats/:chat_key/messages", handler.PostMessage)
	r.GET("/chats/:chat_key/messages", handler.GetMessages)
	r.POST("/messages/:message_id/read", handler.MarkMessageRead)
	r.GET("/conversations", handler.ListConversations)
	return r
}

func newTestDeliveryRouter(groups *mocks.GroupRepositoryMock, convos *mocks.ConversationRepositoryMock) *ws.Router {
	return ws.NewRouter(ws.NewRegistry(), groups, convos)
}

func TestPostMessageDirectSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	convos := new(mocks.ConversationRepositoryMock)
	handler := NewChatHandler(messageRepo, new(mocks.GroupRepositoryMock), convos, newTestDeliveryRouter(new(mocks.GroupRepositoryMock), convos), nil)
	router := setupChatRouter(handler)

	messageRepo.On("CreateMessage", mock.Anything, "1_2", 1, "hi").
		Return(models.Message{ID: 7, ChatKey: "1_2", SenderID: 1, Content: "hi"}, nil).Once()
	convos.On("GetOrCreateConversation", mock.Anything, 1, 2).
		Return(models.Conversation{ID: 4, User1ID: 1, User2ID: 2}, nil).Once()
	convos.On("TouchConversation", mock.Anything, 4).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/1_2/messages", bytes.NewBufferString(`{"content":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	messageRepo.AssertExpectations(t)
	convos.AssertExpectations(t)
}

func TestPostMessageDirectNotParticipant(t *testing.T) {
	handler := NewChatHandler(new(mocks.MessageRepositoryMock), new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock), newTestDeliveryRouter(new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock)), nil)
	router := setupChatRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/chats/2_3/messages", bytes.NewBufferString(`{"content":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPostMessageGroupNotWritable(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewChatHandler(new(mocks.MessageRepositoryMock), groupRepo, new(mocks.ConversationRepositoryMock), newTestDeliveryRouter(groupRepo, new(mocks.ConversationRepositoryMock)), nil)
	router := setupChatRouter(handler)

	groupRepo.On("GetMember", mock.Anything, 5, 1).
		Return(models.GroupMember{GroupID: 5, UserID: 1, CanWrite: false}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/group_5/messages", bytes.NewBufferString(`{"content":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestPostMessageInvalidBody(t *testing.T) {
	handler := NewChatHandler(new(mocks.MessageRepositoryMock), new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock), newTestDeliveryRouter(new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock)), nil)
	router := setupChatRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/chats/1_2/messages", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMessagesSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewChatHandler(messageRepo, new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock), newTestDeliveryRouter(new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock)), nil)
	router := setupChatRouter(handler)

	messageRepo.On("GetMessagesByChat", mock.Anything, "1_2", 50).
		Return([]models.Message{{ID: 1, ChatKey: "1_2", SenderID: 2, Content: "yo"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats/1_2/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestGetMessagesInvalidKey(t *testing.T) {
	handler := NewChatHandler(new(mocks.MessageRepositoryMock), new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock), newTestDeliveryRouter(new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock)), nil)
	router := setupChatRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/chats/garbage/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkMessageReadNotFound(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewChatHandler(messageRepo, new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock), newTestDeliveryRouter(new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock)), nil)
	router := setupChatRouter(handler)

	messageRepo.On("MarkMessageRead", mock.Anything, 9).Return(repositories.ErrMessageNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/messages/9/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestListConversationsSuccess(t *testing.T) {
	convos := new(mocks.ConversationRepositoryMock)
	handler := NewChatHandler(new(mocks.MessageRepositoryMock), new(mocks.GroupRepositoryMock), convos, newTestDeliveryRouter(new(mocks.GroupRepositoryMock), convos), nil)
	router := setupChatRouter(handler)

	convos.On("ListConversationsForUser", mock.Anything, 1).
		Return([]models.Conversation{{ID: 4, User1ID: 1, User2ID: 2}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "conversations")
	convos.AssertExpectations(t)
}
