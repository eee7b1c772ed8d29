package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
)

func TestDoJSONRetriesServerError(t *testing.T) {
	var count int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&count, 1)
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"x"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := New(2*time.Second, 1)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	var out map[string]any
	if _, err := client.DoJSON(context.Background(), req, &out); err != nil {
		t.Fatalf("DoJSON failed: %v", err)
	}
	if out["ok"] != true {
		t.Fatalf("unexpected response: %#v", out)
	}
}

func TestDoJSONNoRetryByDefault(t *testing.T) {
	var count int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&count, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(2*time.Second, 0)
	_, err := DoBodyJSON(context.Background(), client, http.MethodGet, srv.URL, nil, nil, &map[string]any{})
	if !clierr.Is(err, clierr.CodeUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if got := atomic.LoadInt32(&count); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestDoJSONMapsNoRouteToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"reason":"INSUFFICIENT_ASSET_LIQUIDITY"}`))
	}))
	defer srv.Close()

	_, err := DoBodyJSON(context.Background(), New(time.Second, 0), http.MethodGet, srv.URL, nil, nil, &map[string]any{})
	if !clierr.Is(err, clierr.CodeUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestDoJSONAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := DoBodyJSON(context.Background(), New(time.Second, 0), http.MethodGet, srv.URL, nil, nil, &map[string]any{})
	if !clierr.Is(err, clierr.CodeAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestDoJSONRateLimiterThrottles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := New(2*time.Second, 0).WithRateLimit(10, 1)
	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := DoBodyJSON(context.Background(), client, http.MethodGet, srv.URL, nil, nil, &map[string]any{}); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Fatalf("expected limiter to space requests, elapsed %s", elapsed)
	}
}

func TestDoJSONRateLimiterHonoursContext(t *testing.T) {
	client := New(time.Second, 0).WithRateLimit(0.001, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DoBodyJSON(ctx, client, http.MethodGet, "http://127.0.0.1:1", nil, nil, nil)
	if !clierr.Is(err, clierr.CodeRateLimited) {
		t.Fatalf("expected rate limited error on cancelled context, got %v", err)
	}
}
