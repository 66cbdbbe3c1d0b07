package adapter

import (
	"context"

	"telegram-status-bot/internal/domain/model"
)

// StatusResolver performs the external status lookup for a collected
// (application number, email) pair. Failures are classified:
// domain.ErrStatusNotFound when no matching record exists, and
// domain.ErrUpstream for transport or parse failures.
type StatusResolver interface {
	Resolve(ctx context.Context, applicationNumber, email string) (*model.StatusResult, error)
}
