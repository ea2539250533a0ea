package service

import (
	"context"
	"errors"
	"strings"

	"github.com/omk2207/TestChat/internal/audit"
	"github.com/omk2207/TestChat/internal/broadcast"
	"github.com/omk2207/TestChat/internal/domain"
	"github.com/omk2207/TestChat/internal/repository"
	"github.com/omk2207/TestChat/pkg/log"
)

// MembershipInvalidator drops a chat's cached member set after a
// membership change. Satisfied by the membership cache index.
type MembershipInvalidator interface {
	Invalidate(ctx context.Context, chatID uint)
}

// noopInvalidator is used when no membership cache is configured.
type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, uint) {}

// chatServiceImpl implements ChatService.
type chatServiceImpl struct {
	chats    repository.ChatRepository
	messages repository.MessageRepository
	users    repository.UserRepository
	router   *broadcast.Router
	cache    MembershipInvalidator
}

// NewChatService creates a new chat service. cache may be nil.
func NewChatService(
	chats repository.ChatRepository,
	messages repository.MessageRepository,
	users repository.UserRepository,
	router *broadcast.Router,
	cache MembershipInvalidator,
) ChatService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &chatServiceImpl{
		chats:    chats,
		messages: messages,
		users:    users,
		router:   router,
		cache:    cache,
	}
}

// CreateChat creates a chat with the creator as its first member.
func (s *chatServiceImpl) CreateChat(ctx context.Context, userID uint, name string) (*domain.Chat, error) {
	l := log.Ctx(ctx)

	chat := &domain.Chat{
		Name:      name,
		CreatedBy: userID,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		l.Error().Err(err).Uint(log.FieldUserID, userID).Msg("failed to create chat")
		return nil, err
	}

	audit.Log(ctx, audit.ActionChatCreate, userID, "chat created")
	return chat, nil
}

// ListChats returns the caller's chats with their summaries.
func (s *chatServiceImpl) ListChats(ctx context.Context, userID uint) ([]domain.ChatSummary, error) {
	summaries, err := s.chats.ListForUser(ctx, userID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Uint(log.FieldUserID, userID).Msg("failed to list chats")
		return nil, err
	}
	return summaries, nil
}

// Invite adds the account registered under email to the chat. The
// inviter must be a member; an unknown email is ErrInviteeNotFound and
// an existing member is ErrAlreadyMember.
func (s *chatServiceImpl) Invite(ctx context.Context, chatID, inviterID uint, email string) error {
	l := log.Ctx(ctx)

	member, err := s.chats.IsMember(ctx, chatID, inviterID)
	if err != nil {
		l.Error().Err(err).Uint(log.FieldChatID, chatID).Msg("membership check failed")
		return err
	}
	if !member {
		return ErrChatAccess
	}

	invitee, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInviteeNotFound
		}
		l.Error().Err(err).Uint(log.FieldChatID, chatID).Msg("failed to look up invitee")
		return err
	}

	err = s.chats.AddMember(ctx, &domain.ChatMember{
		ChatID:    chatID,
		UserID:    invitee.ID,
		InvitedBy: &inviterID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return ErrAlreadyMember
		}
		l.Error().Err(err).Uint(log.FieldChatID, chatID).Msg("failed to add member")
		return err
	}

	s.cache.Invalidate(ctx, chatID)

	audit.LogWithDetail(ctx, audit.ActionChatInvite, inviterID, email, "user invited to chat")
	return nil
}

// ListMessages returns the chat's messages for a member, flipping the
// read flag on messages from other senders first. Non-members get
// ErrChatAccess before anything is touched.
func (s *chatServiceImpl) ListMessages(ctx context.Context, chatID, userID uint) ([]domain.MessageWithSender, error) {
	l := log.Ctx(ctx)

	member, err := s.chats.IsMember(ctx, chatID, userID)
	if err != nil {
		l.Error().Err(err).Uint(log.FieldChatID, chatID).Msg("membership check failed")
		return nil, err
	}
	if !member {
		return nil, ErrChatAccess
	}

	if err := s.messages.MarkRead(ctx, chatID, userID); err != nil {
		l.Error().Err(err).Uint(log.FieldChatID, chatID).Msg("failed to mark messages read")
		return nil, err
	}

	messages, err := s.messages.ListForChat(ctx, chatID)
	if err != nil {
		l.Error().Err(err).Uint(log.FieldChatID, chatID).Msg("failed to list messages")
		return nil, err
	}
	return messages, nil
}

// PostMessage is the message ingestion pipeline: validate, check the
// sender's membership, persist, re-read the canonical stored form with
// sender metadata, then fan out. Persistence strictly precedes
// broadcast; a store failure aborts before any event leaves, while a
// delivery failure never reaches the caller.
func (s *chatServiceImpl) PostMessage(ctx context.Context, chatID, senderID uint, content string) (*domain.MessageWithSender, error) {
	l := log.Ctx(ctx)

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	member, err := s.chats.IsMember(ctx, chatID, senderID)
	if err != nil {
		l.Error().Err(err).Uint(log.FieldChatID, chatID).Msg("membership check failed")
		return nil, err
	}
	if !member {
		return nil, ErrChatAccess
	}

	msg := &domain.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		l.Error().Err(err).Uint(log.FieldChatID, chatID).Msg("failed to persist message")
		return nil, err
	}

	// Create, then project: the insert path has no access to the
	// sender's display name, so the wire form is always a second read.
	wire, err := s.messages.GetWithSender(ctx, msg.ID)
	if err != nil {
		l.Error().Err(err).Uint(log.FieldMessageID, msg.ID).Msg("failed to load stored message")
		return nil, err
	}

	s.router.ToChat(ctx, chatID, domain.NewMessageEvent(*wire))
	s.router.ToAll(domain.NewChatUpdateEvent(chatID, wire.Content, msg.CreatedAt.Format(domain.ClockTimeFormat)))

	audit.Log(ctx, audit.ActionMessagePost, senderID, "message posted")
	return wire, nil
}
