package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/omk2207/TestChat/internal/config"
	"github.com/omk2207/TestChat/internal/middleware"
	"github.com/omk2207/TestChat/internal/repository"
	"github.com/omk2207/TestChat/internal/service"
	"github.com/omk2207/TestChat/pkg/log"
	"github.com/omk2207/TestChat/pkg/response"

	"github.com/omk2207/TestChat/internal/domain"
)

// Handler handles the HTTP API.
type Handler struct {
	userService    service.UserService
	chatService    service.ChatService
	authMiddleware *middleware.AuthMiddleware
	authCfg        config.AuthConfig
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	userService service.UserService,
	chatService service.ChatService,
	authMiddleware *middleware.AuthMiddleware,
	authCfg config.AuthConfig,
) *Handler {
	return &Handler{
		userService:    userService,
		chatService:    chatService,
		authMiddleware: authMiddleware,
		authCfg:        authCfg,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/logout", h.Logout)
			auth.GET("/me", h.authMiddleware.RequireAuth(), h.Me)
		}

		chats := api.Group("/chats")
		chats.Use(h.authMiddleware.RequireAuth())
		{
			chats.GET("", h.ListChats)
			chats.POST("", h.CreateChat)
			chats.GET("/:chatId/messages", h.ListMessages)
			chats.POST("/:chatId/messages", h.PostMessage)
			chats.POST("/:chatId/invite", h.Invite)
		}
	}
}

// Register handles account creation.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name, email and password are required")
		return
	}

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			response.Conflict(c, "user with this email already exists")
			return
		}
		l.Error().Err(err).Msg("register failed")
		response.InternalError(c, "failed to register user", err)
		return
	}

	response.Created(c, user)
}

// Login authenticates and sets the auth cookie. Failures are always
// the same generic message so accounts cannot be enumerated.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	user, token, err := h.userService.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid credentials")
			return
		}
		l.Error().Err(err).Msg("login failed")
		response.InternalError(c, "failed to login", err)
		return
	}

	h.setAuthCookie(c, token)
	response.Success(c, user)
}

// Logout clears the auth cookie. Expiry is the only server-side
// invalidation path, so there is nothing else to revoke.
func (h *Handler) Logout(c *gin.Context) {
	h.clearAuthCookie(c)
	response.Success(c, gin.H{"message": "logged out successfully"})
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, "unauthorized")
			return
		}
		log.Ctx(ctx).Error().Err(err).Uint(log.FieldUserID, userID).Msg("get user failed")
		response.InternalError(c, "failed to get user", err)
		return
	}

	response.Success(c, user)
}

// ListChats returns the caller's chats with last-message and unread
// summaries.
func (h *Handler) ListChats(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	chats, err := h.chatService.ListChats(ctx, userID)
	if err != nil {
		response.InternalError(c, "failed to list chats", err)
		return
	}

	response.Success(c, chats)
}

// CreateChat creates a chat owned by the caller.
func (h *Handler) CreateChat(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	var req domain.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "chat name is required")
		return
	}

	chat, err := h.chatService.CreateChat(ctx, userID, req.Name)
	if err != nil {
		response.InternalError(c, "failed to create chat", err)
		return
	}

	response.Created(c, gin.H{"id": chat.ID, "name": chat.Name})
}

// ListMessages returns a chat's messages for a member and marks them
// read. Non-members get the same answer as a missing chat.
func (h *Handler) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	messages, err := h.chatService.ListMessages(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, service.ErrChatAccess) {
			response.NotFound(c, "chat not found or access denied")
			return
		}
		response.InternalError(c, "failed to list messages", err)
		return
	}

	response.Success(c, messages)
}

// PostMessage runs the message ingestion pipeline for the caller.
func (h *Handler) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	var req domain.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "message content is required")
		return
	}

	message, err := h.chatService.PostMessage(ctx, chatID, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContent):
			response.BadRequest(c, "message content is required")
		case errors.Is(err, service.ErrChatAccess):
			response.NotFound(c, "chat not found or access denied")
		default:
			response.InternalError(c, "failed to send message", err)
		}
		return
	}

	response.Success(c, message)
}

// Invite adds another account to the chat by email.
func (h *Handler) Invite(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	var req domain.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email is required")
		return
	}

	if err := h.chatService.Invite(ctx, chatID, userID, req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrChatAccess):
			response.NotFound(c, "chat not found or access denied")
		case errors.Is(err, service.ErrInviteeNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrAlreadyMember):
			response.Conflict(c, "user is already in this chat")
		default:
			response.InternalError(c, "failed to invite user", err)
		}
		return
	}

	response.Success(c, gin.H{"message": "user invited successfully"})
}

func (h *Handler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.CookieName,
		token,
		int(h.authCfg.TokenTTL.Seconds()),
		"/",
		"",
		h.authCfg.CookieSecure,
		true,
	)
}

func (h *Handler) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", h.authCfg.CookieSecure, true)
}

func chatIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("chatId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid chat id")
		return 0, false
	}
	return uint(id), true
}
