package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/safatanc/gsalt-console/internal/app/errors"
	"github.com/safatanc/gsalt-console/internal/infrastructures"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

type tokenKey struct{}

// errAdminAPIUnavailable is returned while the circuit breaker is open.
var errAdminAPIUnavailable = errors.NewServiceUnavailableError("Admin API is unavailable")

// ContextWithToken attaches the operator's bearer token to ctx. APIClient
// sends it on every request made with that context.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, strings.TrimPrefix(token, "Bearer "))
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// APIClient talks to the remote admin API. GETs are retried with exponential
// backoff on network errors and 5xx answers; every attempt goes through a
// circuit breaker.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryWait  time.Duration
	breaker    *gobreaker.CircuitBreaker
	log        *logrus.Entry

	mu             sync.RWMutex
	onUnauthorized []func(token string)
}

func NewAPIClient(config *infrastructures.AppConfig) *APIClient {
	log := logrus.WithField("component", "admin_api")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "admin-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if stderrors.Is(err, context.Canceled) {
				return true
			}
			var appErr *errors.AppError
			if stderrors.As(err, &appErr) {
				return appErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithField("from", from.String()).WithField("to", to.String()).Warn("circuit breaker state changed")
		},
	})

	return &APIClient{
		baseURL:    strings.TrimRight(config.ADMIN_API_BASE_URL, "/"),
		httpClient: &http.Client{Timeout: config.ADMIN_API_TIMEOUT},
		maxRetries: config.ADMIN_API_MAX_RETRIES,
		retryWait:  300 * time.Millisecond,
		breaker:    breaker,
		log:        log,
	}
}

// OnUnauthorized registers fn to run with the rejected token whenever the
// admin API answers 401.
func (c *APIClient) OnUnauthorized(fn func(token string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

// Get fetches path and returns the raw body.
func (c *APIClient) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = c.retryWait
	policy := backoff.WithContext(backoff.WithMaxRetries(exponential, uint64(c.maxRetries)), ctx)

	var body []byte
	operation := func() error {
		b, err := c.do(ctx, http.MethodGet, target)
		if err != nil {
			if ctx.Err() == nil && retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		body = b
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.log.WithError(err).WithField("path", path).WithField("wait", wait).Debug("retrying admin api request")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return body, nil
}

// Delete removes the resource at path. Deletes are never retried.
func (c *APIClient) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, c.baseURL+path)
	return err
}

// GetJSON fetches path and decodes a WebResponse envelope into dest.
func (c *APIClient) GetJSON(ctx context.Context, path string, dest any) error {
	body, err := c.Get(ctx, path, nil)
	if err != nil {
		return err
	}
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("decode %s: empty data", path)
	}
	return json.Unmarshal(envelope.Data, dest)
}

func (c *APIClient) do(ctx context.Context, method, target string) ([]byte, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, method, target)
	})
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errAdminAPIUnavailable
	}
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *APIClient) send(ctx context.Context, method, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	token := TokenFromContext(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.URL.Path, err)
	}

	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   req.URL.Path,
		"status": resp.StatusCode,
	}).Debug("admin api request")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		c.unauthorized(token)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		c.log.WithField("path", req.URL.Path).WithField("status", resp.StatusCode).Error("admin api request failed")
	}
	return nil, errors.FromStatus(resp.StatusCode, envelopeMessage(body))
}

func (c *APIClient) unauthorized(token string) {
	c.mu.RLock()
	hooks := append([]func(string){}, c.onUnauthorized...)
	c.mu.RUnlock()
	for _, fn := range hooks {
		fn(token)
	}
}

func envelopeMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

// retryable reports whether a failed attempt is worth repeating: transport
// errors and server errors are, client errors are not.
func retryable(err error) bool {
	if stderrors.Is(err, errAdminAPIUnavailable) {
		return false
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.StatusCode >= http.StatusInternalServerError || appErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
