package domain

import "time"

// GORM models. Kept separate from the domain structs so wire/json
// concerns never leak into the schema (and vice versa).

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserToModel converts domain User to UserModel.
func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ChatModel is the GORM model for the chats table.
type ChatModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedBy uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ChatModel) TableName() string {
	return "chats"
}

func (m *ChatModel) ToDomain() *Chat {
	return &Chat{
		ID:        m.ID,
		Name:      m.Name,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ChatMemberModel is the GORM model for the chat_members table.
// (chat_id, user_id) is unique: re-inviting an existing member violates
// the index and maps to a conflict.
type ChatMemberModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	ChatID    uint      `gorm:"not null;uniqueIndex:idx_chat_user"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_chat_user"`
	InvitedBy *uint
	JoinedAt  time.Time `gorm:"autoCreateTime"`
}

func (ChatMemberModel) TableName() string {
	return "chat_members"
}

func (m *ChatMemberModel) ToDomain() *ChatMember {
	return &ChatMember{
		ID:        m.ID,
		ChatID:    m.ChatID,
		UserID:    m.UserID,
		InvitedBy: m.InvitedBy,
		JoinedAt:  m.JoinedAt,
	}
}

// MessageModel is the GORM model for the messages table.
type MessageModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	ChatID    uint      `gorm:"not null;index"`
	SenderID  uint      `gorm:"not null"`
	Content   string    `gorm:"type:text;not null"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (MessageModel) TableName() string {
	return "messages"
}

func (m *MessageModel) ToDomain() *Message {
	return &Message{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}
