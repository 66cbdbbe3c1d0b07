package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-status-bot/internal/domain"
	"telegram-status-bot/internal/domain/model"
	"telegram-status-bot/internal/domain/ports/adapter"
	"telegram-status-bot/internal/infra/metrics"
)

var _ adapter.MessengerAdapter = (*Sender)(nil)

// Sender delivers replies through the Telegram send-message API.
// The underlying client carries a bounded timeout so a hung API call is
// classified as a delivery failure instead of blocking the handler.
type Sender struct {
	bot *tgbotapi.BotAPI
	log *zerolog.Logger
}

func NewSender(token string, timeout time.Duration, logger *zerolog.Logger) (*Sender, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Sender{bot: bot, log: logger}, nil
}

// Send issues one sendMessage call. Failures are wrapped as
// domain.ErrDelivery so flows can apply the delivery-error policy.
func (s *Sender) Send(ctx context.Context, chatID int64, reply model.OutboundReply) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	switch {
	case len(reply.Inline) > 0:
		msg.ReplyMarkup = inlineMarkup(reply.Inline)
	case len(reply.Keyboard) > 0:
		msg.ReplyMarkup = replyMarkup(reply.Keyboard)
	case reply.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}

	if _, err := s.bot.Send(msg); err != nil {
		metrics.IncMessageSent(false)
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}
	metrics.IncMessageSent(true)
	return nil
}

// AnswerCallback stops the Telegram spinner on a pressed inline button.
func (s *Sender) AnswerCallback(ctx context.Context, callbackID string) error {
	if _, err := s.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("%w: answer callback: %v", domain.ErrDelivery, err)
	}
	return nil
}

func inlineMarkup(rows [][]model.InlineButton) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := btn.Text
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				// safe fallback: use text as callback data
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			r = append(r, kb)
		}
		kbRows = append(kbRows, r)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}

func replyMarkup(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	kbRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			r = append(r, tgbotapi.NewKeyboardButton(label))
		}
		kbRows = append(kbRows, r)
	}
	markup := tgbotapi.NewReplyKeyboard(kbRows...)
	markup.OneTimeKeyboard = true
	return markup
}
