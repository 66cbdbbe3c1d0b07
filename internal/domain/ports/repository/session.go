package repository

import (
	"context"

	"telegram-status-bot/internal/domain/model"
)

// SessionRepository is the port for per-chat conversational state.
// Get returns an empty session when none is stored. Operations on a single
// chat id must be serialized by the caller; distinct ids are independent.
type SessionRepository interface {
	Get(ctx context.Context, chatID int64) (*model.Session, error)
	Put(ctx context.Context, chatID int64, sess *model.Session) error
	Delete(ctx context.Context, chatID int64) error
}
