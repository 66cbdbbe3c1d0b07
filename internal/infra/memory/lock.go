// File: internal/infra/memory/lock.go
package memory

import (
	"context"
	"sync"
)

type chatLock struct {
	mu   sync.Mutex
	refs int
}

// KeyedLocker serializes event handling per chat id within one process.
// Locks for distinct ids are independent; entries are dropped once the last
// holder releases, so the map does not grow with abandoned chats.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[int64]*chatLock
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[int64]*chatLock)}
}

func (l *KeyedLocker) Lock(ctx context.Context, chatID int64) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[chatID]
	if !ok {
		e = &chatLock{}
		l.locks[chatID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, chatID)
		}
		l.mu.Unlock()
	}, nil
}
