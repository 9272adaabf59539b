// Package backend talks to the restaurant backend over its REST API. The
// backend is the source of truth for orders, payments and users; this package
// translates its payloads to and from the domain model.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"comanda/internal/core/domain/model/kernel"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout = 10 * time.Second

	userIDHeader = "X-User-Id"
)

// Client implements ports.OrderGateway and ports.AuthGateway.
type Client struct {
	http       *resty.Client
	normalizer Normalizer
	logger     *slog.Logger
}

// NewClient builds a client for the backend at baseURL. Every request is bound
// by timeout; zero means DefaultTimeout. Requests are never retried.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger = logger.With("component", "BackendClient")
	httpClient := resty.New().
		SetBaseURL(u.String()).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger: logger})

	return &Client{
		http:       httpClient,
		normalizer: NewNormalizer(time.Now(), time.Local),
		logger:     logger,
	}, nil
}

// errorBody is what the backend answers with on failure. Some proxies use
// {"error": ...} instead.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// request starts a call made on behalf of actor, who may be zero. Responses are
// decoded as JSON whatever content type the backend declares.
func (c *Client) request(ctx context.Context, actor kernel.ID) *resty.Request {
	req := c.http.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetError(&errorBody{})
	if !actor.IsZero() {
		req.SetHeader(userIDHeader, actor.String())
	}
	return req
}

// execute sends req. Non-2xx answers become a *BackendError; transport and
// decoding failures wrap ErrBackendUnavailable.
func (c *Client) execute(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %w", ErrBackendUnavailable, method, path, err)
	}

	if !resp.IsSuccess() {
		return &BackendError{StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
	}
	return nil
}

// errorMessage pulls the human-readable part out of an error answer.
func errorMessage(resp *resty.Response) string {
	if body, ok := resp.Error().(*errorBody); ok {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}

	text := strings.TrimSpace(resp.String())
	if len(text) > 200 {
		text = text[:200]
	}
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}

// restyLogger sends resty's own diagnostics, such as undecodable error
// bodies, to slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr) && backendErr.StatusCode == http.StatusNotFound
}

// IsTransient reports whether a later retry of the same request may succeed.
func IsTransient(err error) bool {
	if errors.Is(err, ErrBackendUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var backendErr *BackendError
	return errors.As(err, &backendErr) && backendErr.StatusCode >= http.StatusInternalServerError
}

// idValue sends numeric ids as JSON numbers, which is what the backend's Long
// fields expect.
func idValue(id kernel.ID) any {
	s := id.String()
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}
	return json.Number(s)
}
