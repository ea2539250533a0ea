package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/omk2207/TestChat/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.UserModel{},
		&domain.ChatModel{},
		&domain.ChatMemberModel{},
		&domain.MessageModel{},
	))
	return db
}

func seedUser(t *testing.T, users *GormUserRepository, name, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "Alice", "alice@example.com")
	req.NotZero(alice.ID)

	byID, err := users.GetByID(ctx, alice.ID)
	req.NoError(err)
	req.Equal("Alice", byID.Name)

	byEmail, err := users.GetByEmail(ctx, "alice@example.com")
	req.NoError(err)
	req.Equal(alice.ID, byEmail.ID)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	req.ErrorIs(err, ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewGormUserRepository(db)

	seedUser(t, users, "Alice", "alice@example.com")

	err := users.Create(context.Background(), &domain.User{
		Name: "Impostor", Email: "alice@example.com", PasswordHash: "y",
	})
	req.ErrorIs(err, ErrEmailExists)
}

func TestChatRepository_CreateAddsCreatorMembership(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	chats := NewGormChatRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "Alice", "alice@example.com")

	chat := &domain.Chat{Name: "general", CreatedBy: alice.ID}
	req.NoError(chats.Create(ctx, chat))
	req.NotZero(chat.ID)

	member, err := chats.IsMember(ctx, chat.ID, alice.ID)
	req.NoError(err)
	req.True(member)

	ids, err := chats.ListMemberIDs(ctx, chat.ID)
	req.NoError(err)
	req.Equal([]uint{alice.ID}, ids)
}

func TestChatRepository_AddMemberRejectsDuplicates(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	chats := NewGormChatRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "Alice", "alice@example.com")
	bob := seedUser(t, users, "Bob", "bob@example.com")

	chat := &domain.Chat{Name: "general", CreatedBy: alice.ID}
	req.NoError(chats.Create(ctx, chat))

	member := &domain.ChatMember{ChatID: chat.ID, UserID: bob.ID, InvitedBy: &alice.ID}
	req.NoError(chats.AddMember(ctx, member))
	req.NotZero(member.ID)

	err := chats.AddMember(ctx, &domain.ChatMember{ChatID: chat.ID, UserID: bob.ID})
	req.ErrorIs(err, ErrAlreadyMember)

	ids, err := chats.ListMemberIDs(ctx, chat.ID)
	req.NoError(err)
	req.ElementsMatch([]uint{alice.ID, bob.ID}, ids)
}

func TestMessageRepository_CreateThenProject(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	chats := NewGormChatRepository(db)
	messages := NewGormMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "Alice", "alice@example.com")
	chat := &domain.Chat{Name: "general", CreatedBy: alice.ID}
	req.NoError(chats.Create(ctx, chat))

	msg := &domain.Message{ChatID: chat.ID, SenderID: alice.ID, Content: "hello"}
	req.NoError(messages.Create(ctx, msg))
	req.NotZero(msg.ID)
	req.False(msg.IsRead)
	req.False(msg.CreatedAt.IsZero())

	wire, err := messages.GetWithSender(ctx, msg.ID)
	req.NoError(err)
	req.Equal(msg.ID, wire.ID)
	req.Equal(chat.ID, wire.ChatID)
	req.Equal(alice.ID, wire.SenderID)
	req.Equal("hello", wire.Content)
	req.Equal("Alice", wire.Sender.Name)
	req.Equal(msg.CreatedAt.Format(domain.WireTimeFormat), wire.Timestamp)

	_, err = messages.GetWithSender(ctx, msg.ID+100)
	req.ErrorIs(err, ErrMessageNotFound)
}

func TestMessageRepository_ListForChatOrdersOldestFirst(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	chats := NewGormChatRepository(db)
	messages := NewGormMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "Alice", "alice@example.com")
	chat := &domain.Chat{Name: "general", CreatedBy: alice.ID}
	req.NoError(chats.Create(ctx, chat))

	for _, content := range []string{"first", "second", "third"} {
		req.NoError(messages.Create(ctx, &domain.Message{
			ChatID: chat.ID, SenderID: alice.ID, Content: content,
		}))
	}

	listed, err := messages.ListForChat(ctx, chat.ID)
	req.NoError(err)
	req.Len(listed, 3)
	req.Equal("first", listed[0].Content)
	req.Equal("second", listed[1].Content)
	req.Equal("third", listed[2].Content)
}

func TestMessageRepository_MarkReadIsIdempotentAndSkipsOwn(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	chats := NewGormChatRepository(db)
	messages := NewGormMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "Alice", "alice@example.com")
	bob := seedUser(t, users, "Bob", "bob@example.com")
	chat := &domain.Chat{Name: "general", CreatedBy: alice.ID}
	req.NoError(chats.Create(ctx, chat))

	fromAlice := &domain.Message{ChatID: chat.ID, SenderID: alice.ID, Content: "hi bob"}
	fromBob := &domain.Message{ChatID: chat.ID, SenderID: bob.ID, Content: "hi alice"}
	req.NoError(messages.Create(ctx, fromAlice))
	req.NoError(messages.Create(ctx, fromBob))

	readState := func() map[uint]bool {
		var rows []domain.MessageModel
		req.NoError(db.Find(&rows).Error)
		state := make(map[uint]bool, len(rows))
		for _, r := range rows {
			state[r.ID] = r.IsRead
		}
		return state
	}

	req.NoError(messages.MarkRead(ctx, chat.ID, bob.ID))
	state := readState()
	req.True(state[fromAlice.ID])
	req.False(state[fromBob.ID], "a reader's own messages stay untouched")

	// A second pass with no new messages changes nothing.
	req.NoError(messages.MarkRead(ctx, chat.ID, bob.ID))
	req.Equal(state, readState())
}

func TestChatRepository_ListForUserSummaries(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	chats := NewGormChatRepository(db)
	messages := NewGormMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "Alice", "alice@example.com")
	bob := seedUser(t, users, "Bob", "bob@example.com")

	quiet := &domain.Chat{Name: "quiet", CreatedBy: alice.ID}
	busy := &domain.Chat{Name: "busy", CreatedBy: alice.ID}
	req.NoError(chats.Create(ctx, quiet))
	req.NoError(chats.Create(ctx, busy))
	req.NoError(chats.AddMember(ctx, &domain.ChatMember{ChatID: busy.ID, UserID: bob.ID, InvitedBy: &alice.ID}))

	req.NoError(messages.Create(ctx, &domain.Message{ChatID: busy.ID, SenderID: bob.ID, Content: "one"}))
	last := &domain.Message{ChatID: busy.ID, SenderID: bob.ID, Content: "two"}
	req.NoError(messages.Create(ctx, last))

	summaries, err := chats.ListForUser(ctx, alice.ID)
	req.NoError(err)
	req.Len(summaries, 2)

	// Chats with messages come first, most recently active on top.
	req.Equal("busy", summaries[0].Name)
	req.Equal("two", summaries[0].LastMessage)
	req.Equal(last.CreatedAt.Format(domain.ClockTimeFormat), summaries[0].LastMessageTime)
	req.Equal(int64(2), summaries[0].UnreadCount)

	req.Equal("quiet", summaries[1].Name)
	req.Empty(summaries[1].LastMessage)
	req.Zero(summaries[1].UnreadCount)

	// Bob only sees the chat he belongs to, with no unread from
	// himself.
	bobSummaries, err := chats.ListForUser(ctx, bob.ID)
	req.NoError(err)
	req.Len(bobSummaries, 1)
	req.Equal("busy", bobSummaries[0].Name)
	req.Zero(bobSummaries[0].UnreadCount)
}
