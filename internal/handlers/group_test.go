package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Newbhjj2222/Litechat/internal/mocks"
	"github.com/Newbhjj2222/Litechat/internal/models"
	"github.com/Newbhjj2222/Litechat/internal/repositories"
	"github.com/Newbhjj2222/Litechat/internal/ws"
)

func setupGroupRouter(handler *GroupHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/groups", handler.CreateGroup)
	r.GET("/groups/:group_id/members", handler.ListMembers)
	r.POST("/groups/:group_id/members", handler.AddMember)
	r.PATCH("/groups/:group_id/members/:user_id", handler.UpdateMember)
	return r
}

func newGroupHandler(groupRepo *mocks.GroupRepositoryMock) *GroupHandler {
	router := ws.NewRouter(ws.NewRegistry(), groupRepo, new(mocks.ConversationRepositoryMock))
	return NewGroupHandler(groupRepo, router, nil)
}

func TestCreateGroupSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	router := setupGroupRouter(newGroupHandler(groupRepo))

	groupRepo.On("CreateGroup", mock.Anything, 1, "team", []int{2, 3}).
		Return(models.Group{ID: 5, Name: "team", OwnerID: 1}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{"name":"team","member_ids":[2,3]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestCreateGroupInvalidBody(t *testing.T) {
	router := setupGroupRouter(newGroupHandler(new(mocks.GroupRepositoryMock)))

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListMembersRequiresMembership(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	router := setupGroupRouter(newGroupHandler(groupRepo))

	groupRepo.On("IsMember", mock.Anything, 5, 1).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/5/members", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestAddMemberRequiresAdmin(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	router := setupGroupRouter(newGroupHandler(groupRepo))

	groupRepo.On("GetMember", mock.Anything, 5, 1).
		Return(models.GroupMember{GroupID: 5, UserID: 1, IsAdmin: false}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/5/members", bytes.NewBufferString(`{"user_id":4,"can_write":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestAddMemberSuccessFansOut(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	router := setupGroupRouter(newGroupHandler(groupRepo))

	groupRepo.On("GetMember", mock.Anything, 5, 1).
		Return(models.GroupMember{GroupID: 5, UserID: 1, IsAdmin: true}, nil).Once()
	groupRepo.On("AddMember", mock.Anything, 5, 4, false, true).
		Return(models.GroupMember{GroupID: 5, UserID: 4, CanWrite: true}, nil).Once()
	groupRepo.On("GetGroupMembers", mock.Anything, 5).
		Return([]models.GroupMember{{GroupID: 5, UserID: 1, IsAdmin: true}, {GroupID: 5, UserID: 4, CanWrite: true}}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/5/members", bytes.NewBufferString(`{"user_id":4,"can_write":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestUpdateMemberNotFound(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	router := setupGroupRouter(newGroupHandler(groupRepo))

	groupRepo.On("GetMember", mock.Anything, 5, 1).
		Return(models.GroupMember{GroupID: 5, UserID: 1, IsAdmin: true}, nil).Once()
	groupRepo.On("UpdateMember", mock.Anything, 5, 9, true, false).
		Return(models.GroupMember{}, repositories.ErrMemberNotFound).Once()

	req := httptest.NewRequest(http.MethodPatch, "/groups/5/members/9", bytes.NewBufferString(`{"is_admin":true,"can_write":false}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	groupRepo.AssertExpectations(t)
}
