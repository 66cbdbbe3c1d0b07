// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token       string        `yaml:"token"`
	Username    string        `yaml:"username"`
	Flow        string        `yaml:"flow"`         // status | quiz
	WebhookPath string        `yaml:"webhook_path"` // path the platform delivers updates to
	Timeout     time.Duration `yaml:"timeout"`      // per-call deadline for the send API
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type WebConfig struct {
	Port          int           `yaml:"port"`
	HandleTimeout time.Duration `yaml:"handle_timeout"` // deadline for handling one update
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty -> in-memory session store
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	OpenAIKey     string        `yaml:"openai_key"`
	OpenAIBaseURL string        `yaml:"openai_base_url"` // OpenAI-compatible endpoint (e.g. OpenRouter)
	GeminiKey     string        `yaml:"gemini_key"`
	GeminiURL     string        `yaml:"gemini_url"`
	Model         string        `yaml:"model"`
	Timeout       time.Duration `yaml:"timeout"`
}

type StatusConfig struct {
	Strategy       string        `yaml:"strategy"` // direct | two_stage
	BaseURL        string        `yaml:"base_url"`
	LookupPath     string        `yaml:"lookup_path"` // direct strategy endpoint
	Method         string        `yaml:"method"`      // direct strategy: GET | POST
	SearchPath     string        `yaml:"search_path"` // two-stage strategy: search endpoint
	TrackingField  string        `yaml:"tracking_field"`
	StatusSelector string        `yaml:"status_selector"`
	NameSelector   string        `yaml:"name_selector"`
	Timeout        time.Duration `yaml:"timeout"`
}

type QuizConfig struct {
	Topics []string `yaml:"topics"`
}

type Config struct {
	Bot    BotConfig    `yaml:"bot"`
	Log    LogConfig    `yaml:"log"`
	Web    WebConfig    `yaml:"web"`
	Redis  RedisConfig  `yaml:"redis"`
	AI     AIConfig     `yaml:"ai"`
	Status StatusConfig `yaml:"status"`
	Quiz   QuizConfig   `yaml:"quiz"`
	Locale string       `yaml:"locale"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Flow == "" {
		cfg.Bot.Flow = "status"
	}
	if cfg.Bot.WebhookPath == "" {
		cfg.Bot.WebhookPath = "/api/telegram/webhook"
	}
	if cfg.Bot.Timeout <= 0 {
		cfg.Bot.Timeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Web.HandleTimeout <= 0 {
		cfg.Web.HandleTimeout = 30 * time.Second
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 30 * time.Second
	}
	if cfg.Status.Strategy == "" {
		cfg.Status.Strategy = "two_stage"
	}
	if cfg.Status.Method == "" {
		cfg.Status.Method = "GET"
	}
	if cfg.Status.LookupPath == "" {
		cfg.Status.LookupPath = "/status"
	}
	if cfg.Status.SearchPath == "" {
		cfg.Status.SearchPath = "/api/search"
	}
	if cfg.Status.TrackingField == "" {
		cfg.Status.TrackingField = "tracking_path"
	}
	if cfg.Status.StatusSelector == "" {
		cfg.Status.StatusSelector = ".application-status"
	}
	if cfg.Status.NameSelector == "" {
		cfg.Status.NameSelector = ".applicant-name"
	}
	if cfg.Status.Timeout <= 0 {
		cfg.Status.Timeout = 10 * time.Second
	}
	if len(cfg.Quiz.Topics) == 0 {
		cfg.Quiz.Topics = []string{"История", "Математика", "Английский"}
	}
	if cfg.Locale == "" {
		cfg.Locale = "ru"
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	switch cfg.Bot.Flow {
	case "status":
		if cfg.Status.BaseURL == "" {
			return nil, errors.New("status.base_url is required for the status flow")
		}
	case "quiz":
		// Dev mode may run the quiz against the canned generator.
		if cfg.AI.OpenAIKey == "" && cfg.AI.GeminiKey == "" && !dev {
			return nil, errors.New("ai.openai_key or ai.gemini_key is required for the quiz flow")
		}
	default:
		return nil, fmt.Errorf("unknown bot.flow %q", cfg.Bot.Flow)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return 15 * time.Minute
	}
	return d
}
