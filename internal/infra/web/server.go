package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-status-bot/internal/domain/model"
	"telegram-status-bot/internal/domain/ports/adapter"
	tele "telegram-status-bot/internal/infra/adapters/telegram"
	"telegram-status-bot/internal/infra/logging"
	"telegram-status-bot/internal/infra/metrics"
)

// FlowHandler is what the webhook dispatches normalized events to.
// Both the status dialogue and the quiz flow implement it.
type FlowHandler interface {
	HandleEvent(ctx context.Context, ev model.InboundEvent) error
}

// Server exposes the Telegram webhook plus health and metrics endpoints.
type Server struct {
	flow          FlowHandler
	messenger     adapter.MessengerAdapter
	webhookPath   string
	handleTimeout time.Duration
	log           *zerolog.Logger
}

func NewServer(flow FlowHandler, messenger adapter.MessengerAdapter, webhookPath string, handleTimeout time.Duration, logger *zerolog.Logger) *Server {
	if webhookPath == "" {
		webhookPath = "/api/telegram/webhook"
	}
	if handleTimeout <= 0 {
		handleTimeout = 30 * time.Second
	}
	return &Server{
		flow:          flow,
		messenger:     messenger,
		webhookPath:   webhookPath,
		handleTimeout: handleTimeout,
		log:           logger,
	}
}

// Router builds the HTTP routing. Non-POST methods on the webhook path get
// 405 from the router itself.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post(s.webhookPath, s.handleWebhook)
	return r
}

// handleWebhook acknowledges every structurally valid body with 200 so the
// platform never retries a delivery because of a business-logic failure.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	ctx := logging.WithUpdateID(r.Context(), update.UpdateID)
	ev, callbackID, ok := tele.MapUpdate(&update)
	if !ok {
		// No resolvable chat: acknowledge without producing a reply.
		metrics.IncWebhookUpdate(string(model.EventUnknown))
		s.ack(w)
		return
	}
	metrics.IncWebhookUpdate(string(ev.Kind))
	ctx = logging.WithChatID(ctx, ev.ChatID)
	log := logging.With(ctx, s.log)

	if callbackID != "" {
		if err := s.messenger.AnswerCallback(ctx, callbackID); err != nil {
			log.Warn().Err(err).Msg("answer callback failed")
		}
	}

	hctx, cancel := context.WithTimeout(ctx, s.handleTimeout)
	defer cancel()
	if err := s.flow.HandleEvent(hctx, ev); err != nil {
		// Surfaced to the operator through logs only; the webhook response
		// stays successful.
		log.Error().Err(err).Msg("event handling failed")
	}
	s.ack(w)
}

func (s *Server) ack(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
