package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-status-bot/internal/domain/model"
)

// MapUpdate normalizes one Telegram update into an InboundEvent.
// It also returns the callback query id (when the update is a button press)
// so the caller can answer it. ok is false when no chat id can be resolved;
// such updates are acknowledged without producing a reply.
func MapUpdate(u *tgbotapi.Update) (ev model.InboundEvent, callbackID string, ok bool) {
	switch {
	case u.CallbackQuery != nil:
		cb := u.CallbackQuery
		callbackID = cb.ID
		if cb.Message != nil && cb.Message.Chat != nil {
			ev.ChatID = cb.Message.Chat.ID
		} else if cb.From != nil {
			ev.ChatID = cb.From.ID
		} else {
			return ev, callbackID, false
		}
		ev.Kind = model.EventButton
		ev.CallbackData = cb.Data
		return ev, callbackID, true

	case u.Message != nil && u.Message.Chat != nil:
		ev.ChatID = u.Message.Chat.ID
		if u.Message.Text != "" {
			ev.Kind = model.EventText
			ev.Text = u.Message.Text
		} else {
			ev.Kind = model.EventUnknown
		}
		return ev, "", true

	case u.EditedMessage != nil && u.EditedMessage.Chat != nil:
		ev.ChatID = u.EditedMessage.Chat.ID
		if u.EditedMessage.Text != "" {
			ev.Kind = model.EventText
			ev.Text = u.EditedMessage.Text
		} else {
			ev.Kind = model.EventUnknown
		}
		return ev, "", true
	}
	return ev, "", false
}
