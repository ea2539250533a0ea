package repository

import (
	"context"
	"errors"

	"github.com/omk2207/TestChat/internal/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrChatNotFound    = errors.New("chat not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrAlreadyMember   = errors.New("user is already a member of this chat")
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ChatRepository defines the interface for chat and membership persistence.
type ChatRepository interface {
	// Create inserts the chat and the creator's membership in one
	// transaction.
	Create(ctx context.Context, chat *domain.Chat) error
	GetByID(ctx context.Context, id uint) (*domain.Chat, error)
	// ListForUser returns the chats the user is a member of, with
	// last-message and unread-count projections, most recently active
	// first.
	ListForUser(ctx context.Context, userID uint) ([]domain.ChatSummary, error)
	// AddMember creates a membership; ErrAlreadyMember if one exists.
	AddMember(ctx context.Context, member *domain.ChatMember) error
	IsMember(ctx context.Context, chatID, userID uint) (bool, error)
	// ListMemberIDs returns the user ids of all members of a chat.
	ListMemberIDs(ctx context.Context, chatID uint) ([]uint, error)
}

// MessageRepository defines the interface for message persistence.
type MessageRepository interface {
	// Create inserts the message and fills in its generated id and
	// timestamp.
	Create(ctx context.Context, message *domain.Message) error
	// GetWithSender re-reads a stored message joined with the sender's
	// display name, producing the canonical wire representation.
	GetWithSender(ctx context.Context, id uint) (*domain.MessageWithSender, error)
	// ListForChat returns all of a chat's messages with sender names,
	// oldest first.
	ListForChat(ctx context.Context, chatID uint) ([]domain.MessageWithSender, error)
	// MarkRead flags every message in the chat not sent by readerID as
	// read. Idempotent.
	MarkRead(ctx context.Context, chatID, readerID uint) error
}
