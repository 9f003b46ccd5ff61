package models

// Event types pushed over websocket connections.
const (
	EventNewMessage    = "new_message"
	EventMemberAdded   = "member_added"
	EventMemberUpdated = "member_updated"
	EventNewStatus     = "new_status"
	EventStatusViewed  = "status_viewed"
)

// NewMessageEvent announces a persisted message to chat participants.
type NewMessageEvent struct {
	Type    string   `json:"type"`
	ChatID  string   `json:"chatId"`
	Message *Message `json:"message"`
}

// MemberAddedEvent announces a new group member to the group.
type MemberAddedEvent struct {
	Type    string       `json:"type"`
	GroupID int          `json:"groupId"`
	UserID  int          `json:"userId"`
	Member  *GroupMember `json:"member"`
}

// MemberUpdatedEvent announces changed member permissions to the group.
type MemberUpdatedEvent struct {
	Type    string       `json:"type"`
	GroupID int          `json:"groupId"`
	Member  *GroupMember `json:"member"`
}

// NewStatusEvent announces a freshly posted status to every connected user.
type NewStatusEvent struct {
	Type   string  `json:"type"`
	UserID int     `json:"userId"`
	Status *Status `json:"status"`
}

// StatusViewedEvent tells a status owner that someone viewed their status.
type StatusViewedEvent struct {
	Type     string      `json:"type"`
	StatusID int         `json:"statusId"`
	ViewerID int         `json:"viewerId"`
	View     *StatusView `json:"view"`
}
