package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-status-bot/internal/domain/model"
	"telegram-status-bot/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo manages per-chat conversational state in Redis, so several bot
// instances can serve the same webhook. The TTL bounds memory held by
// abandoned dialogues; it is not a correctness mechanism.
type SessionRepo struct {
	client *redClient
	ttl    time.Duration
}

func NewSessionRepo(client *redClient, ttl time.Duration) *SessionRepo {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SessionRepo{client: client, ttl: ttl}
}

func (s *SessionRepo) sessionKey(chatID int64) string {
	return fmt.Sprintf("dialog_session:%d", chatID)
}

func (s *SessionRepo) Get(ctx context.Context, chatID int64) (*model.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(chatID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &model.Session{}, nil
		}
		return nil, err
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionRepo) Put(ctx context.Context, chatID int64, sess *model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.sessionKey(chatID), data, s.ttl)
}

func (s *SessionRepo) Delete(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, s.sessionKey(chatID))
}
