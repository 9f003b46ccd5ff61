package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"github.com/Newbhjj2222/Litechat/internal/observability"
)

const handshakeTimeout = 30 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type authFrame struct {
	Type   string `json:"type"`
	UserID int    `json:"userId"`
}

// Handler upgrades push connections and runs the auth handshake.
type Handler struct {
	registry *Registry
}

// NewHandler constructs a websocket Handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// Handle upgrades the connection, waits for the auth handshake and registers
// the tagged connection. The first client frame must be
// {"type":"auth","userId":<n>}; until it arrives the connection is untagged
// and receives no routed deliveries.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("litechat/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	var frame authFrame
	if err := conn.ReadJSON(&frame); err != nil || frame.Type != "auth" || frame.UserID <= 0 {
		conn.WriteMessage(websocket.TextMessage, mustMarshal(gin.H{"type": "auth_failed"}))
		conn.Close()
		return
	}
	conn.SetReadDeadline(time.Time{})

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      frame.UserID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	client := newWSConn(conn, info)

	if err := client.Send(mustMarshal(gin.H{"type": "auth_success"})); err != nil {
		client.Close()
		return
	}
	h.registry.Register(frame.UserID, client)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.push", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   eventPayload(info, "ws_connect", "", 0),
	}, observability.BuildHeaders(requestID, traceID))

	go func() {
		var closeReason string
		defer func() {
			h.registry.Unregister(client)
			client.Close()
			observability.DecWSActive()
			observability.IncWSEvent("ws_disconnect")
			_ = observability.PublishEvent(ctx, "ws_events.push", observability.EventEnvelope{
				EventType: "ws_events",
				EventName: "ws_disconnect",
				Payload:   eventPayload(info, "ws_disconnect", closeReason, time.Since(info.ConnectedAt).Milliseconds()),
			}, observability.BuildHeaders(requestID, traceID))
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("ws_error")
				}
				return
			}
		}
	}()
}

func eventPayload(info ConnInfo, event, reason string, durationMs int64) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": durationMs,
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}

func mustMarshal(v interface{}) []byte {
	payload, _ := json.Marshal(v)
	return payload
}
