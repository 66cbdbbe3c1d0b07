package status

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"telegram-status-bot/internal/config"
	"telegram-status-bot/internal/domain"
	"telegram-status-bot/internal/domain/model"
	"telegram-status-bot/internal/domain/ports/adapter"
	"telegram-status-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ adapter.StatusResolver = (*DirectResolver)(nil)

// DirectResolver issues a single request (GET with query parameters or POST
// with a form body) against a fixed lookup endpoint and reads the status
// field off the returned page. An absent status field means the provider
// knows nothing about the pair: that is NotFound, not a transport error.
type DirectResolver struct {
	baseURL        string
	lookupPath     string
	method         string
	statusSelector string
	nameSelector   string
	client         *http.Client
	log            *zerolog.Logger
}

func NewDirectResolver(cfg *config.StatusConfig, logger *zerolog.Logger) *DirectResolver {
	return &DirectResolver{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		lookupPath:     cfg.LookupPath,
		method:         strings.ToUpper(cfg.Method),
		statusSelector: cfg.StatusSelector,
		nameSelector:   cfg.NameSelector,
		client:         &http.Client{Timeout: cfg.Timeout},
		log:            logger,
	}
}

func (r *DirectResolver) Resolve(ctx context.Context, applicationNumber, email string) (*model.StatusResult, error) {
	start := time.Now()
	res, err := r.resolve(ctx, applicationNumber, email)
	metrics.ObserveStatusLookup("direct", outcomeLabel(err), float64(time.Since(start).Milliseconds()))
	return res, err
}

func (r *DirectResolver) resolve(ctx context.Context, applicationNumber, email string) (*model.StatusResult, error) {
	form := url.Values{}
	form.Set("number", applicationNumber)
	form.Set("email", email)

	var req *http.Request
	var err error
	if r.method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost,
			r.baseURL+r.lookupPath, strings.NewReader(form.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet,
			r.baseURL+r.lookupPath+"?"+form.Encode(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrUpstream, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: lookup http %d", domain.ErrUpstream, resp.StatusCode)
	}

	res, err := extract(resp.Body, r.nameSelector, r.statusSelector)
	if err != nil {
		return nil, err
	}
	if res.StatusText == "" {
		return nil, domain.ErrStatusNotFound
	}
	return res, nil
}
