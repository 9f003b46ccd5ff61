package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Newbhjj2222/Litechat/internal/models"
	"github.com/Newbhjj2222/Litechat/internal/repositories"
	"github.com/Newbhjj2222/Litechat/internal/telemetry"
	"github.com/Newbhjj2222/Litechat/internal/ws"
)

// GroupHandler manages group and membership endpoints.
type GroupHandler struct {
	groupRepo repositories.GroupRepository
	router    *ws.Router
	audit     *telemetry.AuditEmitter
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groupRepo repositories.GroupRepository, router *ws.Router, audit *telemetry.AuditEmitter) *GroupHandler {
	return &GroupHandler{groupRepo: groupRepo, router: router, audit: audit}
}

// CreateGroup handles POST /groups.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		Name      string `json:"name" binding:"required"`
		MemberIDs []int  `json:"member_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupRepo.CreateGroup(c.Request.Context(), userID, req.Name, req.MemberIDs)
	if err != nil {
		h.emitAudit(c, "ERROR", "could not create group")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create group"})
		return
	}

	h.emitAudit(c, "INFO", "Group created")
	c.JSON(http.StatusCreated, group)
}

// ListMembers returns the group's current member list.
func (h *GroupHandler) ListMembers(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("group_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	userID := c.GetInt("userID")

	member, err := h.groupRepo.IsMember(c.Request.Context(), groupID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a group member"})
		return
	}

	members, err := h.groupRepo.GetGroupMembers(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// AddMember adds a user to a group (admins only) and announces the new
// member to the group's live connections.
func (h *GroupHandler) AddMember(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("group_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	userID := c.GetInt("userID")

	var req struct {
		UserID   int  `json:"user_id" binding:"required"`
		IsAdmin  bool `json:"is_admin"`
		CanWrite bool `json:"can_write"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if status, msg := h.requireAdmin(c, groupID, userID); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	member, err := h.groupRepo.AddMember(c.Request.Context(), groupID, req.UserID, req.IsAdmin, req.CanWrite)
	if err != nil {
		h.emitAudit(c, "ERROR", "could not add member")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add member"})
		return
	}

	h.emitAudit(c, "INFO", "Group member added")
	c.JSON(http.StatusCreated, member)

	event := models.MemberAddedEvent{Type: models.EventMemberAdded, GroupID: groupID, UserID: req.UserID, Member: &member}
	payload, _ := json.Marshal(event)
	h.router.DeliverToGroup(c.Request.Context(), groupID, payload)
}

// UpdateMember changes a member's permissions (admins only) and announces
// the change to the group's live connections.
func (h *GroupHandler) UpdateMember(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("group_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	memberID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	userID := c.GetInt("userID")

	var req struct {
		IsAdmin  bool `json:"is_admin"`
		CanWrite bool `json:"can_write"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if status, msg := h.requireAdmin(c, groupID, userID); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	member, err := h.groupRepo.UpdateMember(c.Request.Context(), groupID, memberID, req.IsAdmin, req.CanWrite)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMemberNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not update member"})
		return
	}

	h.emitAudit(c, "INFO", "Group member updated")
	c.JSON(http.StatusOK, member)

	event := models.MemberUpdatedEvent{Type: models.EventMemberUpdated, GroupID: groupID, Member: &member}
	payload, _ := json.Marshal(event)
	h.router.DeliverToGroup(c.Request.Context(), groupID, payload)
}

func (h *GroupHandler) requireAdmin(c *gin.Context, groupID, userID int) (int, string) {
	member, err := h.groupRepo.GetMember(c.Request.Context(), groupID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return http.StatusForbidden, "not a group member"
		}
		return http.StatusInternalServerError, "failed to verify membership"
	}
	if !member.IsAdmin {
		return http.StatusForbidden, "admin rights required"
	}
	return 0, ""
}

func (h *GroupHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
