package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/omk2207/TestChat/internal/auth"
	"github.com/omk2207/TestChat/internal/config"
	"github.com/omk2207/TestChat/internal/domain"
	"github.com/omk2207/TestChat/internal/hub"
	"github.com/omk2207/TestChat/internal/middleware"
	"github.com/omk2207/TestChat/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler owns the websocket upgrade path. The credential token is
// verified before the upgrade; the hub never sees an unauthenticated
// connection.
type WSHandler struct {
	hub    *hub.Hub
	tokens *auth.Manager
	wsCfg  config.WebSocketConfig
}

// NewWSHandler creates a new websocket handler.
func NewWSHandler(h *hub.Hub, tokens *auth.Manager, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:    h,
		tokens: tokens,
		wsCfg:  wsCfg,
	}
}

// RegisterRoutes registers the websocket route.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/ws", h.HandleWebSocket)
}

// HandleWebSocket authenticates the request via the same cookie as
// ordinary requests, upgrades it and registers the connection.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := middleware.TokenFromRequest(c)
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	userID, err := h.tokens.Verify(token)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Ctx(c.Request.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(userID, h.hub, conn, h.wsCfg)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage)
}

// handleMessage processes inbound frames. The push channel is one-way;
// clients only send keepalives, anything else is ignored.
func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		return
	}

	if base.Type == domain.MsgTypePing {
		client.SendJSON(map[string]string{"type": domain.MsgTypePong})
	}
}
