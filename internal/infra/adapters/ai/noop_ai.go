package ai

import (
	"context"

	"telegram-status-bot/internal/domain/ports/adapter"
)

var _ adapter.TextGenAdapter = (*NoopAdapter)(nil)

// NoopAdapter returns a canned completion; useful in dev mode and demos.
type NoopAdapter struct {
	Reply string
}

func (n *NoopAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	if n.Reply != "" {
		return n.Reply, nil
	}
	return "1. A\n2. B\n3. C\n4. D\nCorrect answer: A", nil
}
