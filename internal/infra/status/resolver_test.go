package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telegram-status-bot/internal/config"
	"telegram-status-bot/internal/domain"

	"github.com/rs/zerolog"
)

func testCfg(baseURL string) *config.StatusConfig {
	return &config.StatusConfig{
		BaseURL:        baseURL,
		LookupPath:     "/status",
		Method:         "GET",
		SearchPath:     "/api/search",
		TrackingField:  "tracking_path",
		StatusSelector: ".application-status",
		NameSelector:   ".applicant-name",
		Timeout:        2 * time.Second,
	}
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

const trackingPage = `<html><body>
  <div class="applicant-name"> Aziz
    Karimov </div>
  <div class="application-status">Under review</div>
</body></html>`

func TestDirectResolverFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("number"); got != "UZB-10838/25" {
			t.Errorf("number query = %q", got)
		}
		if got := r.URL.Query().Get("email"); got != "user@example.com" {
			t.Errorf("email query = %q", got)
		}
		w.Write([]byte(trackingPage))
	}))
	defer srv.Close()

	r := NewDirectResolver(testCfg(srv.URL), nopLogger())
	res, err := r.Resolve(context.Background(), "UZB-10838/25", "user@example.com")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.FullName != "Aziz Karimov" {
		t.Errorf("name = %q, want collapsed whitespace", res.FullName)
	}
	if res.StatusText != "Under review" || !res.Found {
		t.Errorf("result = %+v", res)
	}
}

func TestDirectResolverPostForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("number") != "UZB-1/25" || r.PostForm.Get("email") != "a@b.cd" {
			t.Errorf("form = %v", r.PostForm)
		}
		w.Write([]byte(trackingPage))
	}))
	defer srv.Close()

	cfg := testCfg(srv.URL)
	cfg.Method = "POST"
	r := NewDirectResolver(cfg, nopLogger())
	if _, err := r.Resolve(context.Background(), "UZB-1/25", "a@b.cd"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
}

func TestDirectResolverMissingStatusIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Nothing matched your query.</p></body></html>`))
	}))
	defer srv.Close()

	r := NewDirectResolver(testCfg(srv.URL), nopLogger())
	_, err := r.Resolve(context.Background(), "UZB-1/25", "a@b.cd")
	if !errors.Is(err, domain.ErrStatusNotFound) {
		t.Fatalf("err = %v, want ErrStatusNotFound", err)
	}
}

func TestDirectResolverServerErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewDirectResolver(testCfg(srv.URL), nopLogger())
	_, err := r.Resolve(context.Background(), "UZB-1/25", "a@b.cd")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestTwoStageResolverHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/search":
			if r.Method != http.MethodPost {
				t.Errorf("search method = %q", r.Method)
			}
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode search body: %v", err)
			}
			if body["number"] != "UZB-10838/25" || body["email"] != "user@example.com" {
				t.Errorf("search body = %v", body)
			}
			json.NewEncoder(w).Encode(map[string]string{"tracking_path": "/track/1"})
		case "/track/1":
			w.Write([]byte(trackingPage))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r := NewTwoStageResolver(testCfg(srv.URL), nopLogger())
	res, err := r.Resolve(context.Background(), "UZB-10838/25", "user@example.com")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.FullName != "Aziz Karimov" || res.StatusText != "Under review" {
		t.Errorf("result = %+v", res)
	}
}

func TestTwoStageResolverMissingTrackingIsNotFound(t *testing.T) {
	responses := []string{`{}`, `{"tracking_path": ""}`, `{"tracking_path": null}`}
	for _, body := range responses {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		r := NewTwoStageResolver(testCfg(srv.URL), nopLogger())
		_, err := r.Resolve(context.Background(), "UZB-1/25", "a@b.cd")
		srv.Close()
		if !errors.Is(err, domain.ErrStatusNotFound) {
			t.Errorf("search body %s: err = %v, want ErrStatusNotFound", body, err)
		}
	}
}

func TestTwoStageResolverPartialPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/search" {
			json.NewEncoder(w).Encode(map[string]string{"tracking_path": "track/2"})
			return
		}
		w.Write([]byte(`<html><body><div class="application-status">Approved</div></body></html>`))
	}))
	defer srv.Close()

	r := NewTwoStageResolver(testCfg(srv.URL), nopLogger())
	res, err := r.Resolve(context.Background(), "UZB-1/25", "a@b.cd")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.FullName != "" || res.StatusText != "Approved" {
		t.Errorf("result = %+v", res)
	}
}

func TestTwoStageResolverSearchFailureIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewTwoStageResolver(testCfg(srv.URL), nopLogger())
	_, err := r.Resolve(context.Background(), "UZB-1/25", "a@b.cd")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestResolverTimeoutIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testCfg(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	r := NewDirectResolver(cfg, nopLogger())
	_, err := r.Resolve(context.Background(), "UZB-1/25", "a@b.cd")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}
