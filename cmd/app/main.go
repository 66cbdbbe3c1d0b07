// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-status-bot/internal/config"
	"telegram-status-bot/internal/domain/ports/adapter"
	"telegram-status-bot/internal/domain/ports/repository"
	"telegram-status-bot/internal/i18n"
	aiAdapters "telegram-status-bot/internal/infra/adapters/ai"
	tele "telegram-status-bot/internal/infra/adapters/telegram"
	"telegram-status-bot/internal/infra/logging"
	"telegram-status-bot/internal/infra/memory"
	"telegram-status-bot/internal/infra/metrics"
	red "telegram-status-bot/internal/infra/redis"
	"telegram-status-bot/internal/infra/status"
	"telegram-status-bot/internal/infra/web"
	"telegram-status-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no redaction)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] enabled")
	}

	metrics.MustRegister()

	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Locale)
	if err != nil {
		logger.Fatal().Err(err).Msg("load locale")
	}

	// ---- Session store & per-chat locking ----
	// Redis when configured (multi-instance), in-memory otherwise. The
	// in-memory store loses in-flight dialogues on restart; that trade-off
	// is deliberate for single-process deployments.
	var sessions repository.SessionRepository
	var locks usecase.Locker
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		sessions = red.NewSessionRepo(redisClient, cfg.Redis.TTL)
		locks = red.NewLocker(redisClient, 2*time.Minute)
		logger.Info().Str("url", cfg.Redis.URL).Msg("session store: redis")
	} else {
		sessions = memory.NewSessionRepo()
		locks = memory.NewKeyedLocker()
		logger.Info().Msg("session store: in-memory (volatile)")
	}

	// ---- Telegram ----
	sender, err := tele.NewSender(cfg.Bot.Token, cfg.Bot.Timeout, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}

	// ---- Flow ----
	var flow web.FlowHandler
	switch cfg.Bot.Flow {
	case "quiz":
		var gen adapter.TextGenAdapter
		if cfg.AI.OpenAIKey == "" && cfg.AI.GeminiKey == "" {
			// Only reachable in dev mode; config validation requires a key otherwise.
			gen = &aiAdapters.NoopAdapter{}
			logger.Warn().Msg("text generation: noop (no AI key configured)")
		} else if cfg.AI.OpenAIKey != "" {
			gen, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, cfg.AI.Model, cfg.AI.Timeout)
			if err != nil {
				logger.Fatal().Err(err).Msg("openai adapter")
			}
			logger.Info().Str("model", cfg.AI.Model).Msg("text generation: openai-compatible")
		} else {
			gen, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.Model, cfg.AI.Timeout)
			if err != nil {
				logger.Fatal().Err(err).Msg("gemini adapter")
			}
			logger.Info().Str("model", cfg.AI.Model).Msg("text generation: gemini")
		}
		flow = usecase.NewQuizUseCase(sessions, gen, sender, locks, tr, cfg.Quiz.Topics, logger)

	default: // "status", validated by config
		var resolver adapter.StatusResolver
		if cfg.Status.Strategy == "direct" {
			resolver = status.NewDirectResolver(&cfg.Status, logger)
		} else {
			resolver = status.NewTwoStageResolver(&cfg.Status, logger)
		}
		logger.Info().Str("strategy", cfg.Status.Strategy).Str("base_url", cfg.Status.BaseURL).Msg("status resolver")
		flow = usecase.NewDialogUseCase(sessions, resolver, sender, locks, tr, logger)
	}

	// ---- HTTP server ----
	srv := web.NewServer(flow, sender, cfg.Bot.WebhookPath, cfg.Web.HandleTimeout, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Web.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("path", cfg.Bot.WebhookPath).Msg("webhook listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
}
