package usecase

import "context"

// Locker serializes handling of events for a single chat id. Lock blocks
// until the chat's critical section is free (or ctx is done) and returns the
// release function. Distinct chat ids never contend.
type Locker interface {
	Lock(ctx context.Context, chatID int64) (func(), error)
}
