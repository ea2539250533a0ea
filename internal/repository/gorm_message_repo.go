package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/omk2207/TestChat/internal/domain"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GORM-based message repository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create inserts a message row and fills in the generated id and
// creation timestamp.
func (r *GormMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	model := &domain.MessageModel{
		ChatID:   message.ChatID,
		SenderID: message.SenderID,
		Content:  message.Content,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	message.ID = model.ID
	message.IsRead = model.IsRead
	message.CreatedAt = model.CreatedAt
	return nil
}

type messageRow struct {
	ID         uint
	ChatID     uint
	SenderID   uint
	Content    string
	CreatedAt  time.Time
	SenderName string
}

func (row *messageRow) toWire() domain.MessageWithSender {
	return domain.MessageWithSender{
		ID:        row.ID,
		ChatID:    row.ChatID,
		SenderID:  row.SenderID,
		Content:   row.Content,
		Timestamp: row.CreatedAt.Format(domain.WireTimeFormat),
		Sender:    domain.MessageSender{Name: row.SenderName},
	}
}

// GetWithSender re-reads a stored message joined with the sender's
// display name. The insert path does not know the sender's name, so
// building the wire representation is always this second, separate read.
func (r *GormMessageRepository) GetWithSender(ctx context.Context, id uint) (*domain.MessageWithSender, error) {
	var row messageRow
	result := r.db.WithContext(ctx).Model(&domain.MessageModel{}).
		Select("messages.id, messages.chat_id, messages.sender_id, messages.content, messages.created_at, users.name AS sender_name").
		Joins("JOIN users ON users.id = messages.sender_id").
		Where("messages.id = ?", id).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || row.ID == 0 {
		return nil, ErrMessageNotFound
	}

	wire := row.toWire()
	return &wire, nil
}

// ListForChat returns all of a chat's messages with sender names,
// oldest first.
func (r *GormMessageRepository) ListForChat(ctx context.Context, chatID uint) ([]domain.MessageWithSender, error) {
	var rows []messageRow
	err := r.db.WithContext(ctx).Model(&domain.MessageModel{}).
		Select("messages.id, messages.chat_id, messages.sender_id, messages.content, messages.created_at, users.name AS sender_name").
		Joins("JOIN users ON users.id = messages.sender_id").
		Where("messages.chat_id = ?", chatID).
		Order("messages.created_at ASC, messages.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	messages := make([]domain.MessageWithSender, 0, len(rows))
	for i := range rows {
		messages = append(messages, rows[i].toWire())
	}
	return messages, nil
}

// MarkRead flags every message in the chat not sent by readerID as
// read. Running it again with no new messages changes nothing.
func (r *GormMessageRepository) MarkRead(ctx context.Context, chatID, readerID uint) error {
	return r.db.WithContext(ctx).Model(&domain.MessageModel{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, readerID, false).
		Update("is_read", true).Error
}

var (
	_ UserRepository    = (*GormUserRepository)(nil)
	_ ChatRepository    = (*GormChatRepository)(nil)
	_ MessageRepository = (*GormMessageRepository)(nil)
)
