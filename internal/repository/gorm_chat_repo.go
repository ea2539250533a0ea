package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/omk2207/TestChat/internal/domain"
)

// GormChatRepository implements ChatRepository using GORM.
type GormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a new GORM-based chat repository.
func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

// Create inserts the chat and the creator's membership in one
// transaction, so a chat never exists without its creator as a member.
func (r *GormChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &domain.ChatModel{
			Name:      chat.Name,
			CreatedBy: chat.CreatedBy,
		}
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		member := &domain.ChatMemberModel{
			ChatID: model.ID,
			UserID: chat.CreatedBy,
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		chat.ID = model.ID
		chat.CreatedAt = model.CreatedAt
		chat.UpdatedAt = model.UpdatedAt
		return nil
	})
}

// GetByID retrieves a chat by ID.
func (r *GormChatRepository) GetByID(ctx context.Context, id uint) (*domain.Chat, error) {
	var model domain.ChatModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

type chatSummaryRow struct {
	ID            uint
	Name          string
	LastMessage   *string
	LastMessageAt *time.Time
	UnreadCount   int64
}

// ListForUser returns the chats the user belongs to, each with its
// last-message projection and the count of unread messages from other
// senders, ordered by most recent activity.
func (r *GormChatRepository) ListForUser(ctx context.Context, userID uint) ([]domain.ChatSummary, error) {
	var rows []chatSummaryRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id, c.name,
			(SELECT m.content FROM messages m WHERE m.chat_id = c.id
				ORDER BY m.created_at DESC, m.id DESC LIMIT 1) AS last_message,
			(SELECT m.created_at FROM messages m WHERE m.chat_id = c.id
				ORDER BY m.created_at DESC, m.id DESC LIMIT 1) AS last_message_at,
			(SELECT COUNT(*) FROM messages m WHERE m.chat_id = c.id
				AND m.sender_id <> ? AND m.is_read = ?) AS unread_count
		FROM chats c
		JOIN chat_members cm ON cm.chat_id = c.id
		WHERE cm.user_id = ?`,
		userID, false, userID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Most recently active first; chats with no messages last.
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].LastMessageAt, rows[j].LastMessageAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	summaries := make([]domain.ChatSummary, 0, len(rows))
	for _, row := range rows {
		s := domain.ChatSummary{
			ID:          row.ID,
			Name:        row.Name,
			UnreadCount: row.UnreadCount,
		}
		if row.LastMessage != nil {
			s.LastMessage = *row.LastMessage
		}
		if row.LastMessageAt != nil {
			s.LastMessageTime = row.LastMessageAt.Format(domain.ClockTimeFormat)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// AddMember creates a membership row. A second membership for the same
// (chat, user) pair violates the unique index and maps to
// ErrAlreadyMember.
func (r *GormChatRepository) AddMember(ctx context.Context, member *domain.ChatMember) error {
	model := &domain.ChatMemberModel{
		ChatID:    member.ChatID,
		UserID:    member.UserID,
		InvitedBy: member.InvitedBy,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return mapUniqueViolation(err)
	}

	member.ID = model.ID
	member.JoinedAt = model.JoinedAt
	return nil
}

// IsMember reports whether the user holds a membership for the chat.
func (r *GormChatRepository) IsMember(ctx context.Context, chatID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ChatMemberModel{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListMemberIDs returns the user ids of all members of a chat.
func (r *GormChatRepository) ListMemberIDs(ctx context.Context, chatID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.ChatMemberModel{}).
		Where("chat_id = ?", chatID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
