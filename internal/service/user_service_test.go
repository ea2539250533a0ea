package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omk2207/TestChat/internal/auth"
	"github.com/omk2207/TestChat/internal/domain"
	"github.com/omk2207/TestChat/internal/repository"
)

// storingUserRepo is an in-memory UserRepository with a real duplicate
// check on email.
type storingUserRepo struct {
	nextID uint
	byID   map[uint]*domain.User
}

func newStoringUserRepo() *storingUserRepo {
	return &storingUserRepo{nextID: 1, byID: make(map[uint]*domain.User)}
}

func (r *storingUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	stored := *user
	r.byID[user.ID] = &stored
	return nil
}

func (r *storingUserRepo) GetByID(_ context.Context, id uint) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *storingUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func newUserFixture() (UserService, *auth.Manager) {
	tokens := auth.NewManager("test-secret", time.Hour, "testchat")
	return NewUserService(newStoringUserRepo(), tokens), tokens
}

func TestUserService_RegisterThenLogin(t *testing.T) {
	req := require.New(t)
	svc, tokens := newUserFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &domain.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22",
	})
	req.NoError(err)
	req.NotZero(registered.ID)
	req.Equal("Alice", registered.Name)

	resp, token, err := svc.Login(ctx, &domain.LoginRequest{
		Email: "alice@example.com", Password: "hunter22",
	})
	req.NoError(err)
	req.Equal(registered.ID, resp.ID)
	req.NotEmpty(token)

	userID, err := tokens.Verify(token)
	req.NoError(err)
	req.Equal(registered.ID, userID)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	req := require.New(t)
	svc, _ := newUserFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22",
	})
	req.NoError(err)

	_, err = svc.Register(ctx, &domain.RegisterRequest{
		Name: "Impostor", Email: "alice@example.com", Password: "different",
	})
	req.ErrorIs(err, repository.ErrEmailExists)
}

func TestUserService_LoginFailuresAreIndistinguishable(t *testing.T) {
	req := require.New(t)
	svc, _ := newUserFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22",
	})
	req.NoError(err)

	// Wrong password and unknown email fail the same way.
	_, _, err = svc.Login(ctx, &domain.LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	req.ErrorIs(err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, &domain.LoginRequest{
		Email: "ghost@example.com", Password: "hunter22",
	})
	req.ErrorIs(err, ErrInvalidCredentials)
}

func TestUserService_GetUser(t *testing.T) {
	req := require.New(t)
	svc, _ := newUserFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &domain.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22",
	})
	req.NoError(err)

	resp, err := svc.GetUser(ctx, registered.ID)
	req.NoError(err)
	req.Equal("alice@example.com", resp.Email)

	_, err = svc.GetUser(ctx, registered.ID+1)
	req.ErrorIs(err, ErrUserNotFound)
}
