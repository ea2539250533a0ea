package domain

import "time"

// WireTimeFormat is the timestamp layout used for messages pushed to
// clients and returned from the messages endpoint.
const WireTimeFormat = "2006-01-02T15:04:05"

// ClockTimeFormat is the short human-readable layout used for
// last-message times in chat summaries.
const ClockTimeFormat = "15:04"

// Message is a persisted chat message. Immutable once created except
// for IsRead, which flips false -> true when a non-sender member views
// the chat.
type Message struct {
	ID        uint      `json:"id"`
	ChatID    uint      `json:"chatId"`
	SenderID  uint      `json:"senderId"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// MessageWithSender is the canonical wire representation of a message:
// the stored row projected together with the sender's display name.
type MessageWithSender struct {
	ID        uint          `json:"id"`
	ChatID    uint          `json:"chatId"`
	SenderID  uint          `json:"senderId"`
	Content   string        `json:"content"`
	Timestamp string        `json:"timestamp"`
	Sender    MessageSender `json:"sender"`
}

// MessageSender carries the sender display metadata joined onto a message.
type MessageSender struct {
	Name string `json:"name"`
}

// PostMessageRequest represents a message creation request.
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
