package domain

import "time"

// Chat represents a chat room.
type Chat struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMember grants a user access to a chat's messages.
// InvitedBy is nil for the chat creator.
type ChatMember struct {
	ID        uint      `json:"id"`
	ChatID    uint      `json:"chat_id"`
	UserID    uint      `json:"user_id"`
	InvitedBy *uint     `json:"invited_by,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

// ChatSummary is the per-chat projection shown in a user's chat list.
type ChatSummary struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	LastMessage     string `json:"lastMessage"`
	LastMessageTime string `json:"lastMessageTime"`
	UnreadCount     int64  `json:"unreadCount"`
}

// CreateChatRequest represents a chat creation request.
type CreateChatRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// InviteRequest represents an invite-by-email request.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}
