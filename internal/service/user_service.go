package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/omk2207/TestChat/internal/audit"
	"github.com/omk2207/TestChat/internal/auth"
	"github.com/omk2207/TestChat/internal/domain"
	"github.com/omk2207/TestChat/internal/repository"
	"github.com/omk2207/TestChat/pkg/log"
)

// userServiceImpl implements UserService.
type userServiceImpl struct {
	repo   repository.UserRepository
	tokens *auth.Manager
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, tokens *auth.Manager) UserService {
	return &userServiceImpl{
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates a new account.
func (s *userServiceImpl) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserResponse, error) {
	l := log.Ctx(ctx)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrEmailExists) {
			l.Error().Err(err).Msg("failed to create user")
		}
		return nil, err
	}

	audit.Log(ctx, audit.ActionRegister, user.ID, "user registered")

	resp := user.ToResponse()
	return &resp, nil
}

// Login authenticates a user and mints a credential token. Unknown
// emails and wrong passwords both come back as ErrInvalidCredentials.
func (s *userServiceImpl) Login(ctx context.Context, req *domain.LoginRequest) (*domain.UserResponse, string, error) {
	l := log.Ctx(ctx)

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			audit.LogWithDetail(ctx, audit.ActionLoginFailed, 0, req.Email, "login failed: user not found")
			return nil, "", ErrInvalidCredentials
		}
		l.Error().Err(err).Msg("failed to get user by email")
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		audit.LogWithDetail(ctx, audit.ActionLoginFailed, user.ID, req.Email, "login failed: wrong password")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		l.Error().Err(err).Uint(log.FieldUserID, user.ID).Msg("failed to generate token after login")
		return nil, "", err
	}

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")

	resp := user.ToResponse()
	return &resp, token, nil
}

// GetUser retrieves a user by ID.
func (s *userServiceImpl) GetUser(ctx context.Context, userID uint) (*domain.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		log.Ctx(ctx).Error().Err(err).Uint(log.FieldUserID, userID).Msg("failed to get user")
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}
