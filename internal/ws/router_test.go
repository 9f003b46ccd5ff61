package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Newbhjj2222/Litechat/internal/chatkey"
	"github.com/Newbhjj2222/Litechat/internal/mocks"
	"github.com/Newbhjj2222/Litechat/internal/models"
)

func TestDeliverToUserSendsOnlyToOpenConnections(t *testing.T) {
	registry := NewRegistry()
	open := &fakeConn{}
	closed := &fakeConn{closed: true}
	registry.Register(42, open)
	registry.Register(42, closed)

	router := NewRouter(registry, new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock))
	router.DeliverToUser(42, []byte(`{"type":"ping"}`))

	assert.Equal(t, 1, open.sentCount())
	assert.Equal(t, 0, closed.sentCount())
}

func TestDeliverToUserUnknownIdentityIsNoop(t *testing.T) {
	router := NewRouter(NewRegistry(), new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock))
	router.DeliverToUser(99, []byte("x"))
}

func TestDeliverToUserIsolatesSendFailures(t *testing.T) {
	registry := NewRegistry()
	failing := &fakeConn{failSend: true}
	healthy := &fakeConn{}
	registry.Register(42, failing)
	registry.Register(42, healthy)

	router := NewRouter(registry, new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock))
	router.DeliverToUser(42, []byte("x"))

	assert.Equal(t, 1, healthy.sentCount())
	// the failing connection is dropped from the registry
	assert.Len(t, registry.ConnectionsFor(42), 1)
}

func TestDeliverToGroupUsesFreshMembership(t *testing.T) {
	registry := NewRegistry()
	c1 := &fakeConn{}
	c3 := &fakeConn{}
	registry.Register(1, c1)
	registry.Register(3, c3)

	groups := new(mocks.GroupRepositoryMock)
	groups.On("GetGroupMembers", mock.Anything, 5).
		Return([]models.GroupMember{{GroupID: 5, UserID: 1}}, nil).Once()
	groups.On("GetGroupMembers", mock.Anything, 5).
		Return([]models.GroupMember{{GroupID: 5, UserID: 1}, {GroupID: 5, UserID: 3}}, nil).Once()

	router := NewRouter(registry, groups, new(mocks.ConversationRepositoryMock))

	router.DeliverToGroup(context.Background(), 5, []byte("a"))
	assert.Equal(t, 1, c1.sentCount())
	assert.Equal(t, 0, c3.sentCount())

	// membership changed between deliveries; the second call sees it
	router.DeliverToGroup(context.Background(), 5, []byte("b"))
	assert.Equal(t, 2, c1.sentCount())
	assert.Equal(t, 1, c3.sentCount())

	groups.AssertExpectations(t)
}

func TestDeliverToGroupMultiDevice(t *testing.T) {
	registry := NewRegistry()
	ca := &fakeConn{}
	cb := &fakeConn{}
	c1 := &fakeConn{}
	registry.Register(2, ca)
	registry.Register(2, cb)
	registry.Register(1, c1)

	groups := new(mocks.GroupRepositoryMock)
	groups.On("GetGroupMembers", mock.Anything, 5).Return([]models.GroupMember{
		{GroupID: 5, UserID: 1}, {GroupID: 5, UserID: 2}, {GroupID: 5, UserID: 3},
	}, nil).Once()

	router := NewRouter(registry, groups, new(mocks.ConversationRepositoryMock))
	router.DeliverToGroup(context.Background(), 5, []byte("hello"))

	// identity 2 receives on both devices, identity 1 on its single one,
	// identity 3 has no connections and nothing fails
	assert.Equal(t, 1, ca.sentCount())
	assert.Equal(t, 1, cb.sentCount())
	assert.Equal(t, 1, c1.sentCount())
	groups.AssertExpectations(t)
}

func TestBroadcastReachesAllRegisteredIdentities(t *testing.T) {
	registry := NewRegistry()
	c1 := &fakeConn{}
	c2 := &fakeConn{}
	registry.Register(1, c1)
	registry.Register(2, c2)

	router := NewRouter(registry, new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock))
	router.Broadcast([]byte("all"))

	assert.Equal(t, 1, c1.sentCount())
	assert.Equal(t, 1, c2.sentCount())
}

func TestRouteMessageDirect(t *testing.T) {
	registry := NewRegistry()
	c1 := &fakeConn{}
	registry.Register(42, c1)

	convos := new(mocks.ConversationRepositoryMock)
	convos.On("GetOrCreateConversation", mock.Anything, 42, 7).
		Return(models.Conversation{ID: 9, User1ID: 7, User2ID: 42}, nil).Once()
	convos.On("TouchConversation", mock.Anything, 9).Return(nil).Once()

	router := NewRouter(registry, new(mocks.GroupRepositoryMock), convos)
	msg := models.Message{ID: 1, ChatKey: chatkey.Direct(42, 7), SenderID: 42, Content: "hi", CreatedAt: time.Now()}
	router.RouteMessage(context.Background(), msg)

	// identity 42 gets exactly one new_message payload; identity 7 has no
	// connections and that is not an error
	require.Equal(t, 1, c1.sentCount())
	var event models.NewMessageEvent
	require.NoError(t, json.Unmarshal(c1.sent[0], &event))
	assert.Equal(t, models.EventNewMessage, event.Type)
	assert.Equal(t, "42_7", event.ChatID)
	assert.Equal(t, "hi", event.Message.Content)
	convos.AssertExpectations(t)
}

func TestRouteMessageGroup(t *testing.T) {
	registry := NewRegistry()
	c1 := &fakeConn{}
	registry.Register(1, c1)

	groups := new(mocks.GroupRepositoryMock)
	groups.On("GetGroupMembers", mock.Anything, 5).
		Return([]models.GroupMember{{GroupID: 5, UserID: 1}}, nil).Once()

	convos := new(mocks.ConversationRepositoryMock)
	router := NewRouter(registry, groups, convos)
	router.RouteMessage(context.Background(), models.Message{ID: 2, ChatKey: chatkey.Group(5), SenderID: 1})

	assert.Equal(t, 1, c1.sentCount())
	groups.AssertExpectations(t)
	// group routing performs no conversation bookkeeping
	convos.AssertNotCalled(t, "GetOrCreateConversation", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouteMessageMalformedKeySkipsSilently(t *testing.T) {
	registry := NewRegistry()
	c1 := &fakeConn{}
	registry.Register(1, c1)

	router := NewRouter(registry, new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock))
	router.RouteMessage(context.Background(), models.Message{ID: 3, ChatKey: "not_a_key_at_all"})

	assert.Equal(t, 0, c1.sentCount())
}

func TestUnregisteredConnReceivesNothing(t *testing.T) {
	registry := NewRegistry()
	c1 := &fakeConn{}
	registry.Register(42, c1)
	registry.Unregister(c1)

	router := NewRouter(registry, new(mocks.GroupRepositoryMock), new(mocks.ConversationRepositoryMock))
	router.DeliverToUser(42, []byte("x"))

	assert.Equal(t, 0, c1.sentCount())
	assert.Empty(t, registry.ConnectionsFor(42))
}
