package adapter

import "context"

// TextGenAdapter produces free text from a prompt. Implementations must
// return domain.ErrEmptyCompletion when the provider answered successfully
// but with no content, so callers can tell that apart from provider errors.
type TextGenAdapter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
