package memory

import (
	"context"
	"sync"

	"telegram-status-bot/internal/domain/model"
	"telegram-status-bot/internal/domain/ports/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo keeps sessions in process memory. State is lost on restart;
// that volatility is a stated property of the single-process deployment, not
// a defect. Use the Redis repo for multi-instance deployments.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[int64]model.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[int64]model.Session)}
}

func (r *SessionRepo) Get(ctx context.Context, chatID int64) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[chatID]
	if !ok {
		return &model.Session{}, nil
	}
	cp := s
	return &cp, nil
}

func (r *SessionRepo) Put(ctx context.Context, chatID int64, sess *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[chatID] = *sess
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, chatID)
	return nil
}
