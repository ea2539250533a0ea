package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/omk2207/TestChat/internal/config"
	"github.com/omk2207/TestChat/pkg/log"
)

// ErrCacheMiss is returned when a key is absent from the cache.
var ErrCacheMiss = errors.New("cache miss")

// Source is the authoritative membership lookup the index caches over,
// satisfied by the chat repository.
type Source interface {
	ListMemberIDs(ctx context.Context, chatID uint) ([]uint, error)
}

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// MembershipIndex is a read-through cache of chat member ids, used by
// the fan-out router to resolve chat-scoped audiences without hitting
// the store on every message. A nil redis client degrades to plain
// store lookups. Concurrent misses for the same chat are collapsed
// into one store read.
type MembershipIndex struct {
	source Source
	client *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

// NewMembershipIndex creates the index. client may be nil.
func NewMembershipIndex(source Source, client *redis.Client, prefix string, ttl time.Duration) *MembershipIndex {
	return &MembershipIndex{
		source: source,
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (i *MembershipIndex) key(chatID uint) string {
	return fmt.Sprintf("%s:%d", i.prefix, chatID)
}

// ListMemberIDs returns the member ids for a chat, served from cache
// when possible. Cache failures fall back to the store; only a store
// failure surfaces as an error.
func (i *MembershipIndex) ListMemberIDs(ctx context.Context, chatID uint) ([]uint, error) {
	if i.client == nil {
		return i.source.ListMemberIDs(ctx, chatID)
	}

	key := i.key(chatID)
	if ids, err := i.get(ctx, key); err == nil {
		return ids, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Ctx(ctx).Warn().Err(err).Uint(log.FieldChatID, chatID).Msg("membership cache read failed")
	}

	v, err, _ := i.group.Do(key, func() (interface{}, error) {
		ids, err := i.source.ListMemberIDs(ctx, chatID)
		if err != nil {
			return nil, err
		}
		if err := i.set(ctx, key, ids); err != nil {
			log.Ctx(ctx).Warn().Err(err).Uint(log.FieldChatID, chatID).Msg("membership cache write failed")
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]uint), nil
}

// Invalidate drops the cached member set for a chat. Called after a
// membership change so the next broadcast sees the new audience.
func (i *MembershipIndex) Invalidate(ctx context.Context, chatID uint) {
	if i.client == nil {
		return
	}
	if err := i.client.Del(ctx, i.key(chatID)).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint(log.FieldChatID, chatID).Msg("membership cache invalidation failed")
	}
}

func (i *MembershipIndex) get(ctx context.Context, key string) ([]uint, error) {
	data, err := i.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var ids []uint
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return ids, nil
}

func (i *MembershipIndex) set(ctx context.Context, key string, ids []uint) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := i.client.Set(ctx, key, data, i.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}
