package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastRetryPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, WithRetryPolicy(fastRetryPolicy(3)))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestDoDisableRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, WithRetryPolicy(fastRetryPolicy(3)))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Do(context.Background(), &Request{
		Method:       http.MethodGet,
		Path:         "/",
		DisableRetry: true,
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 HTTPError, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestDoNoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, WithRetryPolicy(fastRetryPolicy(3)))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/"}); err == nil {
		t.Fatalf("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("400 must not be retried, got %d attempts", got)
	}
}

func TestDoHonorsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, WithRetryPolicy(fastRetryPolicy(3)))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = client.Do(ctx, &Request{Method: http.MethodGet, Path: "/"})
	if err == nil {
		t.Fatalf("expected deadline error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Do did not honor deadline, took %s", elapsed)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	cases := []string{"", "   ", "://not-a-url", "no-scheme"}
	for _, base := range cases {
		if _, err := NewClient(base); err == nil {
			t.Errorf("NewClient(%q): expected error", base)
		}
	}
}

func TestBackoffForAttemptBounded(t *testing.T) {
	b := NewBackoff(10*time.Millisecond, 80*time.Millisecond, 0)
	if got := b.ForAttempt(0); got != 10*time.Millisecond {
		t.Fatalf("attempt 0: got %s", got)
	}
	if got := b.ForAttempt(2); got != 40*time.Millisecond {
		t.Fatalf("attempt 2: got %s", got)
	}
	if got := b.ForAttempt(10); got != 80*time.Millisecond {
		t.Fatalf("attempt 10 should cap at max, got %s", got)
	}
}
