package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Newbhjj2222/Litechat/internal/models"
	"github.com/Newbhjj2222/Litechat/internal/repositories"
	"github.com/Newbhjj2222/Litechat/internal/telemetry"
	"github.com/Newbhjj2222/Litechat/internal/ws"
)

// StatusHandler manages ephemeral status endpoints.
type StatusHandler struct {
	statusRepo repositories.StatusRepository
	router     *ws.Router
	ttl        time.Duration
	audit      *telemetry.AuditEmitter
}

// NewStatusHandler builds a StatusHandler.
func NewStatusHandler(statusRepo repositories.StatusRepository, router *ws.Router, ttl time.Duration, audit *telemetry.AuditEmitter) *StatusHandler {
	return &StatusHandler{statusRepo: statusRepo, router: router, ttl: ttl, audit: audit}
}

// CreateStatus stores a status with expiry set to creation plus the TTL and
// broadcasts it to every connected user.
func (h *StatusHandler) CreateStatus(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	status, err := h.statusRepo.CreateStatus(c.Request.Context(), userID, req.Content, now.Add(h.ttl))
	if err != nil {
		h.emitAudit(c, "ERROR", "failed to store status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store status"})
		return
	}

	c.JSON(http.StatusCreated, status)

	event := models.NewStatusEvent{Type: models.EventNewStatus, UserID: userID, Status: &status}
	payload, _ := json.Marshal(event)
	h.router.Broadcast(payload)
}

// ListStatuses returns statuses that have not yet expired.
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.statusRepo.ListActiveStatuses(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statuses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}

// ViewStatus appends a view record and notifies the status owner. Views are
// not deduplicated; every request produces a record.
func (h *StatusHandler) ViewStatus(c *gin.Context) {
	statusID, err := strconv.Atoi(c.Param("status_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status id"})
		return
	}
	viewerID := c.GetInt("userID")

	status, err := h.statusRepo.GetStatus(c.Request.Context(), statusID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrStatusNotFound) {
			code = http.StatusNotFound
		}
		c.JSON(code, gin.H{"error": "status not found"})
		return
	}

	view, err := h.statusRepo.AddStatusView(c.Request.Context(), statusID, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record view"})
		return
	}

	c.JSON(http.StatusCreated, view)

	event := models.StatusViewedEvent{Type: models.EventStatusViewed, StatusID: statusID, ViewerID: viewerID, View: &view}
	payload, _ := json.Marshal(event)
	h.router.DeliverToUser(status.UserID, payload)
}

func (h *StatusHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
