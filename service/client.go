package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultUserAgent  = "moviedeck-cli/1.0"
	defaultTimeout    = 12 * time.Second
	errorSnippetLimit = 8 << 10
	headerRequestID   = "X-Request-ID"
)

// statusError carries a non-2xx response until the calling client maps it onto its
// own error type.
type statusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

type jsonClient struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

func newJSONClient(httpClient *http.Client, logger *slog.Logger) *jsonClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &jsonClient{
		httpClient: httpClient,
		userAgent:  defaultUserAgent,
		logger:     logger,
	}
}

// do sends one request without retries. Transport failures become *NetworkError and
// non-2xx responses become *statusError.
func (c *jsonClient) do(ctx context.Context, method string, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With(
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", req.URL.Path),
	)
	started := time.Now()

	res, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("request failed", slog.String("error", err.Error()))
		return &NetworkError{Endpoint: req.URL.Path, Err: err}
	}
	defer res.Body.Close()

	logger.Debug("request completed",
		slog.Int("status", res.StatusCode),
		slog.Duration("elapsed", time.Since(started)),
	)

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, errorSnippetLimit))
		return &statusError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       bytes.TrimSpace(snippet),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Wrapf(err, "decode response from %s", req.URL.Path)
	}
	return nil
}

// providerMessage pulls the human-readable message out of an error body. TMDB uses
// status_message, DummyJSON uses message.
func providerMessage(body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
		Message       string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.StatusMessage); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
	}
	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "<") {
		return ""
	}
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

func joinURL(base string, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
