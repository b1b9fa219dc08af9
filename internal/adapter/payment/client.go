package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

var (
	// ErrTransferNotFound indicates the provider does not know the reference yet.
	ErrTransferNotFound = errors.New("transfer not found")
	// ErrDisabled is returned when no provider address is configured.
	ErrDisabled = errors.New("payment provider is not configured")
)

// TooManyRequestsError represents rate limiting signal from the provider.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client queries transfer state from the payment provider.
type Client interface {
	Fetch(ctx context.Context, reference string) (*model.Payment, error)
	Enabled() bool
}

// HTTPClient implements Client via the provider's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type transferResponse struct {
	Reference string   `json:"reference"`
	Status    string   `json:"status"`
	Amount    *float64 `json:"amount,omitempty"`
}

// NewHTTPClient creates provider client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment provider url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment provider url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Enabled reports true for a configured HTTP client.
func (c *HTTPClient) Enabled() bool { return true }

// Fetch returns the provider's view of a transfer.
func (c *HTTPClient) Fetch(ctx context.Context, reference string) (*model.Payment, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/transfers/", url.PathEscape(reference))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var data transferResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("decode transfer: %w", err)
		}
		if data.Reference == "" {
			data.Reference = reference
		}
		return &model.Payment{
			Reference: data.Reference,
			Status:    normalizeStatus(data.Status),
			Amount:    data.Amount,
		}, nil
	case http.StatusNotFound, http.StatusNoContent:
		return nil, ErrTransferNotFound
	case http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("payment provider request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("reference", reference),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("payment provider error: %s", resp.Status)
	}
}

func normalizeStatus(raw string) model.PaymentStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SUCCEEDED", "SUCCESS", "PAID", "COMPLETED":
		return model.PaymentStatusSucceeded
	case "FAILED", "DECLINED", "CANCELLED", "CANCELED":
		return model.PaymentStatusFailed
	default:
		return model.PaymentStatusPending
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// DisabledClient is used when no provider is configured.
type DisabledClient struct{}

func (DisabledClient) Enabled() bool { return false }

func (DisabledClient) Fetch(context.Context, string) (*model.Payment, error) {
	return nil, ErrDisabled
}
