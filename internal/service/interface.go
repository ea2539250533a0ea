package service

import (
	"context"
	"errors"

	"github.com/omk2207/TestChat/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrChatNotFound       = errors.New("chat not found")
	ErrChatAccess         = errors.New("not a member of this chat")
	ErrEmptyContent       = errors.New("message content is required")
	ErrInviteeNotFound    = errors.New("no account with this email")
	ErrAlreadyMember      = errors.New("user is already in this chat")
)

// UserService handles accounts and credentials.
type UserService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserResponse, error)
	// Login verifies the credentials and mints a token. Unknown email
	// and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.UserResponse, string, error)
	GetUser(ctx context.Context, userID uint) (*domain.UserResponse, error)
}

// ChatService handles chats, membership and the message ingestion
// pipeline.
type ChatService interface {
	CreateChat(ctx context.Context, userID uint, name string) (*domain.Chat, error)
	ListChats(ctx context.Context, userID uint) ([]domain.ChatSummary, error)
	// Invite adds the user registered under email to the chat.
	// inviterID must already be a member.
	Invite(ctx context.Context, chatID, inviterID uint, email string) error
	// ListMessages returns the chat's messages for a member and marks
	// the ones from other senders as read.
	ListMessages(ctx context.Context, chatID, userID uint) ([]domain.MessageWithSender, error)
	// PostMessage validates, persists and fans out a new message.
	PostMessage(ctx context.Context, chatID, senderID uint, content string) (*domain.MessageWithSender, error)
}
