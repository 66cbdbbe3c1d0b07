package status

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"telegram-status-bot/internal/config"
	"telegram-status-bot/internal/domain"
	"telegram-status-bot/internal/domain/model"
	"telegram-status-bot/internal/domain/ports/adapter"
	"telegram-status-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ adapter.StatusResolver = (*TwoStageResolver)(nil)

// TwoStageResolver first POSTs a JSON search for the (number, email) pair,
// then fetches the tracking page the search points at and extracts the
// applicant name and status. A search response without a tracking path is
// NotFound; everything transport-shaped is an upstream error.
type TwoStageResolver struct {
	baseURL        string
	searchPath     string
	trackingField  string
	statusSelector string
	nameSelector   string
	client         *http.Client
	log            *zerolog.Logger
}

func NewTwoStageResolver(cfg *config.StatusConfig, logger *zerolog.Logger) *TwoStageResolver {
	return &TwoStageResolver{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		searchPath:     cfg.SearchPath,
		trackingField:  cfg.TrackingField,
		statusSelector: cfg.StatusSelector,
		nameSelector:   cfg.NameSelector,
		client:         &http.Client{Timeout: cfg.Timeout},
		log:            logger,
	}
}

func (r *TwoStageResolver) Resolve(ctx context.Context, applicationNumber, email string) (*model.StatusResult, error) {
	start := time.Now()
	res, err := r.resolve(ctx, applicationNumber, email)
	metrics.ObserveStatusLookup("two_stage", outcomeLabel(err), float64(time.Since(start).Milliseconds()))
	return res, err
}

func (r *TwoStageResolver) resolve(ctx context.Context, applicationNumber, email string) (*model.StatusResult, error) {
	trackingPath, err := r.search(ctx, applicationNumber, email)
	if err != nil {
		return nil, err
	}
	return r.fetch(ctx, trackingPath)
}

func (r *TwoStageResolver) search(ctx context.Context, applicationNumber, email string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"number": applicationNumber,
		"email":  email,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode search: %v", domain.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+r.searchPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build search request: %v", domain.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: search request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: search http %d", domain.ErrUpstream, resp.StatusCode)
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode search response: %v", domain.ErrUpstream, err)
	}
	raw, ok := payload[r.trackingField]
	if !ok {
		return "", domain.ErrStatusNotFound
	}
	var trackingPath string
	if err := json.Unmarshal(raw, &trackingPath); err != nil || strings.TrimSpace(trackingPath) == "" {
		return "", domain.ErrStatusNotFound
	}
	return trackingPath, nil
}

func (r *TwoStageResolver) fetch(ctx context.Context, trackingPath string) (*model.StatusResult, error) {
	if !strings.HasPrefix(trackingPath, "/") {
		trackingPath = "/" + trackingPath
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+trackingPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build tracking request: %v", domain.ErrUpstream, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: tracking request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: tracking http %d", domain.ErrUpstream, resp.StatusCode)
	}

	return extract(resp.Body, r.nameSelector, r.statusSelector)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, domain.ErrStatusNotFound):
		return "not_found"
	default:
		return "upstream_error"
	}
}
