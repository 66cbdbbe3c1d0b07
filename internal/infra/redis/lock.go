// File: internal/infra/redis/lock.go
package redis

import (
	"context"
	"fmt"
	"time"

	"telegram-status-bot/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Locker serializes event handling per chat id across bot instances.
// The TTL guards against a crashed holder; it must exceed the longest
// external call made while the lock is held.
type Locker struct {
	cli *redis.Client
	ttl time.Duration
}

func NewLocker(c *redClient, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Locker{cli: c.cli, ttl: ttl}
}

func lockKey(chatID int64) string {
	return fmt.Sprintf("chat_lock:%d", chatID)
}

func (l *Locker) Lock(ctx context.Context, chatID int64) (func(), error) {
	key := lockKey(chatID)
	token := uuid.NewString()
	for i := 0; i < 40; i++ {
		ok, err := l.cli.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { _ = l.unlock(context.Background(), key, token) }, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return nil, domain.ErrChatBusy
}

var luaUnlock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

func (l *Locker) unlock(ctx context.Context, key, token string) error {
	_, err := luaUnlock.Run(ctx, l.cli, []string{key}, token).Result()
	return err
}
