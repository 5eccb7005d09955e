// Package remotesync pushes and pulls the household snapshot to and from a remote
// debt-roadmap API.
package remotesync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iwvelando/debt-roadmap/internal/household"
)

var (
	// ErrUnauthorized means the remote rejected the API key.
	ErrUnauthorized = errors.New("remote rejected the API key")
	// ErrUnavailable means the remote has no storage configured.
	ErrUnavailable = errors.New("remote storage is not available")
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 4 << 20
)

// HealthStatus is the remote's answer to a health check.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
}

// OK reports whether the remote is up with storage attached.
func (h HealthStatus) OK() bool {
	return h.Status == "ok"
}

// Config configures a Client.
type Config struct {
	Endpoint     string
	APIKey       string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client talks to a remote debt-roadmap API.
type Client struct {
	Endpoint string
	APIKey   string

	http   *retryablehttp.Client
	logger *zap.Logger
}

// NewClient builds a client for cfg. A nil logger discards retry logs.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{Timeout: timeout}
	retryClient.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = cfg.RetryWaitMax
	}
	retryClient.Logger = &retryLogger{logger: logger.Sugar()}
	// hand back the last response so status codes map to sentinel errors
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		Endpoint: cfg.Endpoint,
		APIKey:   cfg.APIKey,
		http:     retryClient,
		logger:   logger,
	}
}

// Push replaces the remote household with snapshot.
func (c *Client) Push(ctx context.Context, snapshot household.Snapshot) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := c.do(ctx, http.MethodPost, "/push", body, &result); err != nil {
		return errors.Wrap(err, "push failed")
	}
	if !result.Success {
		return errors.Errorf("push failed: remote did not confirm: %s", result.Error)
	}

	c.logger.Info("pushed household",
		zap.String("op", "sync.push"),
		zap.Int("debts", len(snapshot.Debts)),
	)
	return nil
}

// Pull fetches the remote household.
func (c *Client) Pull(ctx context.Context) (household.Snapshot, error) {
	var snapshot household.Snapshot
	if err := c.do(ctx, http.MethodGet, "/pull", nil, &snapshot); err != nil {
		return household.Snapshot{}, errors.Wrap(err, "pull failed")
	}

	c.logger.Info("pulled household",
		zap.String("op", "sync.pull"),
		zap.Int("debts", len(snapshot.Debts)),
	)
	return snapshot, nil
}

// Health asks the remote whether it is up. A remote running without storage
// answers with a "warning" status and no error.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return HealthStatus{}, errors.Wrap(err, "health check failed")
	}
	return status, nil
}

// URL returns the absolute URL for an API path such as "/pull". The endpoint
// may be given with or without its "/api" suffix.
func (c *Client) URL(path string) string {
	base := strings.TrimSuffix(strings.TrimSpace(c.Endpoint), "/")
	base = strings.TrimSuffix(base, "/api")
	return base + "/api" + path
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	if c.Endpoint == "" {
		return errors.New("no sync endpoint configured")
	}

	var raw interface{}
	if body != nil {
		raw = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.URL(path), raw)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	if err := statusError(resp.StatusCode, payload); err != nil {
		return err
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return errors.Wrap(err, "failed to parse response")
	}
	return nil
}

func statusError(code int, payload []byte) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusServiceUnavailable:
		return ErrUnavailable
	case code >= 200 && code < 300:
		return nil
	}

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(payload, &errResp)
	detail := errResp.Error
	if detail == "" {
		detail = errResp.Message
	}
	if detail == "" {
		detail = string(bytes.TrimSpace(payload))
	}
	return fmt.Errorf("remote returned %d: %s", code, detail)
}

// retryLogger adapts zap to retryablehttp's leveled logger.
type retryLogger struct {
	logger *zap.SugaredLogger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "op", "sync.retry")...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Infow(msg, append(keysAndValues, "op", "sync.retry")...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, append(keysAndValues, "op", "sync.retry")...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warnw(msg, append(keysAndValues, "op", "sync.retry")...)
}
