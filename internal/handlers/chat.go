package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Newbhjj2222/Litechat/internal/chatkey"
	"github.com/Newbhjj2222/Litechat/internal/repositories"
	"github.com/Newbhjj2222/Litechat/internal/telemetry"
	"github.com/Newbhjj2222/Litechat/internal/ws"
)

const defaultMessageLimit = 50

// ChatHandler manages message endpoints for direct and group chats.
type ChatHandler struct {
	messageRepo repositories.MessageRepository
	groupRepo   repositories.GroupRepository
	convoRepo   repositories.ConversationRepository
	router      *ws.Router
	audit       *telemetry.AuditEmitter
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(messageRepo repositories.MessageRepository, groupRepo repositories.GroupRepository, convoRepo repositories.ConversationRepository, router *ws.Router, audit *telemetry.AuditEmitter) *ChatHandler {
	return &ChatHandler{
		messageRepo: messageRepo,
		groupRepo:   groupRepo,
		convoRepo:   convoRepo,
		router:      router,
		audit:       audit,
	}
}

// PostMessage stores a message under its chat key and routes it to live
// connections. The write is persisted and acknowledged before any delivery
// is attempted; delivery failures never fail the write.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	chatKey := c.Param("chat_key")
	userID := c.GetInt("userID")

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if status, msg := h.checkWriteAccess(c, chatKey, userID); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), chatKey, userID, req.Content)
	if err != nil {
		h.emitAudit(c, "ERROR", "failed to store message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	c.JSON(http.StatusCreated, msg)
	h.router.RouteMessage(c.Request.Context(), msg)
}

// checkWriteAccess enforces participation for well-formed chat keys. A key
// that parses as neither form is let through: the message is stored and
// routing will skip it.
func (h *ChatHandler) checkWriteAccess(c *gin.Context, rawKey string, userID int) (int, string) {
	key, err := chatkey.Parse(rawKey)
	if err != nil {
		return 0, ""
	}
	switch key.Kind {
	case chatkey.KindGroup:
		member, err := h.groupRepo.GetMember(c.Request.Context(), key.GroupID, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrMemberNotFound) {
				return http.StatusForbidden, "not a group member"
			}
			return http.StatusInternalServerError, "failed to verify membership"
		}
		if !member.CanWrite {
			return http.StatusForbidden, "member cannot write to this group"
		}
	case chatkey.KindDirect:
		if key.UserA != userID && key.UserB != userID {
			return http.StatusForbidden, "not a chat participant"
		}
	}
	return 0, ""
}

// GetMessages returns the most recent messages of a chat.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	chatKey := c.Param("chat_key")
	userID := c.GetInt("userID")

	key, err := chatkey.Parse(chatKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat key"})
		return
	}
	switch key.Kind {
	case chatkey.KindGroup:
		member, err := h.groupRepo.IsMember(c.Request.Context(), key.GroupID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
			return
		}
		if !member {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a group member"})
			return
		}
	case chatkey.KindDirect:
		if key.UserA != userID && key.UserB != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a chat participant"})
			return
		}
	}

	limit := defaultMessageLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	msgs, err := h.messageRepo.GetMessagesByChat(c.Request.Context(), chatKey, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// MarkMessageRead flips a message's read flag.
func (h *ChatHandler) MarkMessageRead(c *gin.Context) {
	messageID, err := strconv.Atoi(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	if err := h.messageRepo.MarkMessageRead(c.Request.Context(), messageID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not mark message read"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}

// ListConversations returns the caller's direct conversations, most recently
// active first.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID := c.GetInt("userID")

	convos, err := h.convoRepo.ListConversationsForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": convos})
}
