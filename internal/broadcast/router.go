package broadcast

import (
	"context"
	"encoding/json"

	"github.com/omk2207/TestChat/internal/hub"
	"github.com/omk2207/TestChat/pkg/log"
)

// MembershipSource resolves the audience of a chat-scoped broadcast.
// Backed by the chat repository, usually behind the membership cache.
type MembershipSource interface {
	ListMemberIDs(ctx context.Context, chatID uint) ([]uint, error)
}

// Router fans events out to live connections. Delivery is fire and
// forget: connections that are closed or have a full buffer are
// skipped, nothing is retried or queued, and no failure ever reaches
// the caller.
type Router struct {
	hub     *hub.Hub
	members MembershipSource
}

// NewRouter creates a router over the given registry and membership
// source.
func NewRouter(h *hub.Hub, members MembershipSource) *Router {
	return &Router{
		hub:     h,
		members: members,
	}
}

// ToChat delivers the event to every live connection of every member
// of the chat. Non-members never receive chat-scoped events. A failed
// membership lookup degrades to a logged drop.
func (r *Router) ToChat(ctx context.Context, chatID uint, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.L().Error().Err(err).Uint(log.FieldChatID, chatID).Msg("failed to marshal broadcast event")
		return
	}

	memberIDs, err := r.members.ListMemberIDs(ctx, chatID)
	if err != nil {
		log.L().Warn().Err(err).Uint(log.FieldChatID, chatID).Msg("membership lookup failed, dropping broadcast")
		return
	}

	delivered := 0
	for _, userID := range memberIDs {
		for _, c := range r.hub.ConnectionsFor(userID) {
			if c.Enqueue(data) {
				delivered++
			}
		}
	}

	log.L().Debug().
		Uint(log.FieldChatID, chatID).
		Int("delivered", delivered).
		Msg("chat broadcast")
}

// ToAll delivers the event to every connected user, used for chat
// summary updates any user might have in their visible list.
func (r *Router) ToAll(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.L().Error().Err(err).Msg("failed to marshal broadcast event")
		return
	}

	for _, c := range r.hub.Connections() {
		c.Enqueue(data)
	}
}
