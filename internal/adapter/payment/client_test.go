package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestHTTPClientFetch(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		retryAfter string
		check      func(t *testing.T, p *model.Payment, err error)
	}{
		{
			name:   "succeeded transfer",
			status: http.StatusOK,
			body:   `{"reference":"TX-1","status":"succeeded","amount":120.5}`,
			check: func(t *testing.T, p *model.Payment, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.Status != model.PaymentStatusSucceeded {
					t.Fatalf("expected succeeded, got %s", p.Status)
				}
				if p.Amount == nil || *p.Amount != 120.5 {
					t.Fatalf("unexpected amount: %v", p.Amount)
				}
			},
		},
		{
			name:   "unknown status is pending",
			status: http.StatusOK,
			body:   `{"status":"AUTHORIZING"}`,
			check: func(t *testing.T, p *model.Payment, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.Status != model.PaymentStatusPending {
					t.Fatalf("expected pending, got %s", p.Status)
				}
				if p.Reference != "TX-1" {
					t.Fatalf("expected reference fallback, got %q", p.Reference)
				}
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			check: func(t *testing.T, _ *model.Payment, err error) {
				if !errors.Is(err, ErrTransferNotFound) {
					t.Fatalf("expected ErrTransferNotFound, got %v", err)
				}
			},
		},
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			retryAfter: "3",
			check: func(t *testing.T, _ *model.Payment, err error) {
				var tooMany TooManyRequestsError
				if !errors.As(err, &tooMany) {
					t.Fatalf("expected TooManyRequestsError, got %v", err)
				}
				if tooMany.RetryAfter != 3*time.Second {
					t.Fatalf("unexpected retry after %s", tooMany.RetryAfter)
				}
			},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			body:   "upstream down",
			check: func(t *testing.T, _ *model.Payment, err error) {
				if err == nil {
					t.Fatal("expected error for 502")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/transfers/TX-1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if tc.retryAfter != "" {
					w.Header().Set("Retry-After", tc.retryAfter)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client, err := NewHTTPClient(srv.URL, testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}
			p, err := client.Fetch(context.Background(), "TX-1")
			tc.check(t, p, err)
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 5*time.Second {
		t.Fatalf("expected default 5s, got %s", got)
	}
	if got := parseRetryAfter("12"); got != 12*time.Second {
		t.Fatalf("expected 12s, got %s", got)
	}
	if got := parseRetryAfter("garbage"); got != 5*time.Second {
		t.Fatalf("expected fallback 5s, got %s", got)
	}
}

func TestDisabledClient(t *testing.T) {
	var c Client = DisabledClient{}
	if c.Enabled() {
		t.Fatal("disabled client must report disabled")
	}
	if _, err := c.Fetch(context.Background(), "TX"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
