package restfast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
)

func TestDoJSON_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Auth"); got != "token-1" {
			t.Errorf("X-Auth = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":"pong"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithHeaderProvider(func() map[string]string {
		return map[string]string{"X-Auth": "token-1"}
	}))

	var out struct {
		Value string `json:"value"`
	}
	if err := c.DoJSON(context.Background(), fasthttp.MethodGet, "/ping", nil, &out, false); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.Value != "pong" {
		t.Fatalf("value = %q", out.Value)
	}
}

func TestDoJSON_RetriesRetryableStatus(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetry(3))
	if err := c.DoJSON(context.Background(), fasthttp.MethodGet, "/", nil, nil, true); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("hits = %d, want 3", n)
	}
}

func TestDoJSON_ClientErrorIsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetry(3))
	if err := c.DoJSON(context.Background(), fasthttp.MethodGet, "/", nil, nil, true); err == nil {
		t.Fatalf("expected error on 400")
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("hits = %d, want 1", n)
	}
}

func TestBackoffDuration(t *testing.T) {
	cases := map[int]time.Duration{
		0: 100 * time.Millisecond, // clamped up
		1: 100 * time.Millisecond,
		2: 200 * time.Millisecond,
		3: 400 * time.Millisecond,
		6: 3200 * time.Millisecond,
		9: 3200 * time.Millisecond, // clamped down
	}
	for attempt, want := range cases {
		if got := BackoffDuration(attempt); got != want {
			t.Fatalf("BackoffDuration(%d) = %v, want %v", attempt, got, want)
		}
	}
}
