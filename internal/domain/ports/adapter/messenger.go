// File: internal/domain/ports/adapter/messenger.go
package adapter

import (
	"context"

	"telegram-status-bot/internal/domain/model"
)

// MessengerAdapter is the outbound boundary to the messaging platform.
// Send issues exactly one send-message call; multiple replies in one turn are
// sent as independent sequential calls by the flow.
type MessengerAdapter interface {
	Send(ctx context.Context, chatID int64, reply model.OutboundReply) error
	AnswerCallback(ctx context.Context, callbackID string) error
}
