package domain

// WebSocket event types pushed to clients.
const (
	EventTypeMessage    = "message"
	EventTypeChatUpdate = "chat_update"
)

// WebSocket message types from clients. The push channel is otherwise
// one-way; clients only send keepalives.
const (
	MsgTypePing = "ping"
	MsgTypePong = "pong"
)

// BaseMessage is the base structure for inbound WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// MessageEvent is pushed to every member of a chat when a message is
// created in it.
type MessageEvent struct {
	Type    string            `json:"type"`
	ChatID  uint              `json:"chatId"`
	Message MessageWithSender `json:"message"`
}

// NewMessageEvent builds a chat-scoped message event.
func NewMessageEvent(msg MessageWithSender) *MessageEvent {
	return &MessageEvent{
		Type:    EventTypeMessage,
		ChatID:  msg.ChatID,
		Message: msg,
	}
}

// ChatUpdateEvent is pushed to every connected user when a chat's
// last-message summary changes.
type ChatUpdateEvent struct {
	Type string          `json:"type"`
	Chat ChatUpdatePayload `json:"chat"`
}

// ChatUpdatePayload carries the updated chat summary fields.
type ChatUpdatePayload struct {
	ID              uint   `json:"id"`
	LastMessage     string `json:"lastMessage"`
	LastMessageTime string `json:"lastMessageTime"`
}

// NewChatUpdateEvent builds a global chat summary event.
func NewChatUpdateEvent(chatID uint, lastMessage, lastMessageTime string) *ChatUpdateEvent {
	return &ChatUpdateEvent{
		Type: EventTypeChatUpdate,
		Chat: ChatUpdatePayload{
			ID:              chatID,
			LastMessage:     lastMessage,
			LastMessageTime: lastMessageTime,
		},
	}
}
