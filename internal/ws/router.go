package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Newbhjj2222/Litechat/internal/chatkey"
	"github.com/Newbhjj2222/Litechat/internal/models"
	"github.com/Newbhjj2222/Litechat/internal/observability"
	"github.com/Newbhjj2222/Litechat/internal/repositories"
)

// Router resolves routing targets to live connections and pushes serialized
// payloads to them. All delivery is best-effort and at-most-once: a closed
// or failing connection silently misses the event, and delivery failures are
// never surfaced to the write path that triggered them.
type Router struct {
	registry *Registry
	groups   repositories.GroupRepository
	convos   repositories.ConversationRepository
}

// NewRouter constructs a Router.
func NewRouter(registry *Registry, groups repositories.GroupRepository, convos repositories.ConversationRepository) *Router {
	return &Router{registry: registry, groups: groups, convos: convos}
}

// DeliverToUser sends the payload to every currently open connection of the
// user. Connections not in the open state are skipped, not queued. A failing
// send is logged and unregisters that connection only; the rest of the
// fan-out proceeds.
func (r *Router) DeliverToUser(userID int, payload []byte) {
	for _, conn := range r.registry.ConnectionsFor(userID) {
		if !conn.Open() {
			continue
		}
		if err := conn.Send(payload); err != nil {
			log.Printf("websocket write error user=%d: %v", userID, err)
			conn.Close()
			r.registry.Unregister(conn)
			observability.IncDeliveryError()
			continue
		}
		observability.IncDelivery("user")
	}
}

// DeliverToGroup resolves the group's current members and delivers to each.
// Membership is looked up fresh on every call, so changes are reflected on
// the very next delivery.
func (r *Router) DeliverToGroup(ctx context.Context, groupID int, payload []byte) {
	members, err := r.groups.GetGroupMembers(ctx, groupID)
	if err != nil {
		log.Printf("group member lookup failed group=%d: %v", groupID, err)
		return
	}
	for _, member := range members {
		r.DeliverToUser(member.UserID, payload)
	}
	observability.IncDelivery("group")
}

// Broadcast delivers the payload to every user currently registered,
// regardless of group or chat scoping.
func (r *Router) Broadcast(payload []byte) {
	for _, userID := range r.registry.Identities() {
		r.DeliverToUser(userID, payload)
	}
	observability.IncDelivery("broadcast")
}

// RouteMessage pushes a persisted message to the connections its chat key
// resolves to. A malformed key skips routing silently: the message is
// already persisted and the caller has been answered, so there is nobody
// left to report the failure to.
func (r *Router) RouteMessage(ctx context.Context, msg models.Message) {
	key, err := chatkey.Parse(msg.ChatKey)
	if err != nil {
		log.Printf("skipping routing for malformed chat key %q", msg.ChatKey)
		observability.IncRoutingSkipped()
		return
	}

	event := models.NewMessageEvent{Type: models.EventNewMessage, ChatID: msg.ChatKey, Message: &msg}
	payload, _ := json.Marshal(event)

	switch key.Kind {
	case chatkey.KindGroup:
		r.DeliverToGroup(ctx, key.GroupID, payload)
	case chatkey.KindDirect:
		r.DeliverToUser(key.UserA, payload)
		r.DeliverToUser(key.UserB, payload)
		r.touchConversation(ctx, key.UserA, key.UserB)
	}
}

// touchConversation bumps last-activity bookkeeping for a direct pair. The
// lookup matches the pair unordered, so both "A_B" and "B_A" chat keys land
// on the same conversation row.
func (r *Router) touchConversation(ctx context.Context, userA, userB int) {
	convo, err := r.convos.GetOrCreateConversation(ctx, userA, userB)
	if err != nil {
		log.Printf("conversation bookkeeping failed for pair (%d,%d): %v", userA, userB, err)
		return
	}
	if err := r.convos.TouchConversation(ctx, convo.ID); err != nil {
		log.Printf("conversation touch failed id=%d: %v", convo.ID, err)
	}
}
