// Package presence holds room membership in a shared Redis instance so
// that every server process sees the same roster. Each room is a list
// keyed by its code; a sentinel element marks a created-but-empty room
// so it can be told apart from one that never existed.
package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"log/slog"

	"room-chat/internal/app"
)

// ErrStoreUnavailable wraps any Redis failure. Callers must not assume
// a mutation happened when they see it.
var ErrStoreUnavailable = errors.New("presence store unavailable")

// placeholder occupies a freshly created room's list until the first
// real member joins. It never appears in a roster.
const placeholder = "__placeholder__"

// createScript initializes a room only if its key is absent, so a
// repeated create never disturbs members already present.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('RPUSH', KEYS[1], ARGV[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return 1
`)

// addScript is the atomic append-if-absent. Two processes racing to
// add to the same room serialize inside Redis, so a name can never be
// appended twice.
var addScript = redis.NewScript(`
local members = redis.call('LRANGE', KEYS[1], 0, -1)
for _, m in ipairs(members) do
  if m == ARGV[1] then
    redis.call('EXPIRE', KEYS[1], ARGV[3])
    return 0
  end
end
redis.call('LREM', KEYS[1], 1, ARGV[2])
redis.call('RPUSH', KEYS[1], ARGV[1])
redis.call('EXPIRE', KEYS[1], ARGV[3])
return 1
`)

// RedisStore implements chat.Store on Redis lists.
type RedisStore struct {
	rdb *redis.Client
	log *slog.Logger
	ttl time.Duration
}

// NewRedisStore connects to redis and verifies connectivity
func NewRedisStore(ctx context.Context, cfg app.Config, log *slog.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &RedisStore{rdb: rdb, log: log, ttl: cfg.RoomTTL}, nil
}

// Close shuts down the redis connection
func (s *RedisStore) Close() error { return s.rdb.Close() }

func roomKey(code string) string { return "room:" + code }

// CreateRoom initializes the room's list with the sentinel. Idempotent.
func (s *RedisStore) CreateRoom(ctx context.Context, code string) error {
	err := createScript.Run(ctx, s.rdb, []string{roomKey(code)}, placeholder, int(s.ttl.Seconds())).Err()
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrStoreUnavailable, code, err)
	}
	return nil
}

// RoomExists reports whether the room's key is present, counting the
// sentinel, so a created-but-unjoined room exists.
func (s *RedisStore) RoomExists(ctx context.Context, code string) (bool, error) {
	n, err := s.rdb.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: exists %s: %v", ErrStoreUnavailable, code, err)
	}
	return n > 0, nil
}

// ListMembers returns the roster in join order, sentinel filtered out.
// An absent or empty room yields an empty slice.
func (s *RedisStore) ListMembers(ctx context.Context, code string) ([]string, error) {
	raw, err := s.rdb.LRange(ctx, roomKey(code), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrStoreUnavailable, code, err)
	}
	members := make([]string, 0, len(raw))
	for _, m := range raw {
		if m != placeholder {
			members = append(members, m)
		}
	}
	return members, nil
}

// AddMember appends the name if absent, drops the sentinel, and
// refreshes the room's TTL.
func (s *RedisStore) AddMember(ctx context.Context, code, name string) error {
	err := addScript.Run(ctx, s.rdb, []string{roomKey(code)}, name, placeholder, int(s.ttl.Seconds())).Err()
	if err != nil {
		return fmt.Errorf("%w: add %s to %s: %v", ErrStoreUnavailable, name, code, err)
	}
	return nil
}

// RemoveMember removes the first occurrence of name. Removing the last
// member deletes the key, so a vacated room reads as absent.
func (s *RedisStore) RemoveMember(ctx context.Context, code, name string) error {
	if err := s.rdb.LRem(ctx, roomKey(code), 1, name).Err(); err != nil {
		return fmt.Errorf("%w: remove %s from %s: %v", ErrStoreUnavailable, name, code, err)
	}
	return nil
}
