package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/safatanc/gsalt-console/internal/app/errors"
	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/internal/infrastructures"
	"github.com/safatanc/gsalt-console/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[string]*models.ConsoleSession

func (f fakeResolver) Resolve(_ context.Context, header string) (*models.ConsoleSession, error) {
	token := strings.TrimPrefix(header, "Bearer ")
	if known, ok := f[token]; ok {
		session := *known
		session.Token = token
		return &session, nil
	}
	return nil, errors.NewUnauthorizedError("token expired")
}

type fakeLimiter struct {
	mu      sync.Mutex
	allowed int
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit ratelimit.Rate) (bool, ratelimit.RateLimitInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	remaining := f.allowed - len(f.keys)
	info := ratelimit.RateLimitInfo{Limit: limit.Requests, Remaining: max(remaining, 0), Reset: time.Unix(1800000000, 0)}
	return remaining >= 0, info
}

func (f *fakeLimiter) Reset(context.Context, string) error { return nil }

var (
	admin    = &models.ConsoleSession{ActorID: uuid.MustParse("7d1f8a52-6c1b-4f5e-9b0e-0d9c2f3f1a01"), Username: "root", Role: models.UserRoleAdmin}
	operator = &models.ConsoleSession{ActorID: uuid.New(), Username: "operator", Role: models.UserRoleUser}
)

func newAuthApp(limiter *fakeLimiter) *fiber.App {
	auth := NewAuthMiddleware(fakeResolver{"admin": admin, "operator": operator})
	limits := NewRateLimitMiddleware(limiter)

	app := infrastructures.NewFiberApp()
	app.Get("/me", auth.AuthSession, limits.LimitByActor("lists", ratelimit.ListLimit), func(c *fiber.Ctx) error {
		session, err := Session(c)
		if err != nil {
			return err
		}
		return c.SendString(session.Username)
	})
	app.Get("/public", limits.LimitByActor("public", ratelimit.PublicLimit), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response) models.WebResponse[any] {
	t.Helper()
	defer resp.Body.Close()
	var body models.WebResponse[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestAuthSession(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantMsg: "Unauthorized"},
		{name: "unknown token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantMsg: "token expired"},
		{name: "not an admin", header: "Bearer operator", wantStatus: http.StatusForbidden, wantMsg: "Console access requires the ADMIN role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newAuthApp(&fakeLimiter{allowed: 10})
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decodeBody(t, resp)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestAuthSession_AdminPasses(t *testing.T) {
	limiter := &fakeLimiter{allowed: 10}
	app := newAuthApp(limiter)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer admin")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"actor:" + admin.ActorID.String() + ":lists"}, limiter.keys)
	assert.Equal(t, "240", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", resp.Header.Get("X-RateLimit-Remaining"))
}

func TestRateLimit_RejectsWhenExhausted(t *testing.T) {
	limiter := &fakeLimiter{allowed: 1}
	app := newAuthApp(limiter)

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "request %d", i)
		assert.Equal(t, "30", resp.Header.Get("X-RateLimit-Limit"))
		assert.Equal(t, "1800000000", resp.Header.Get("X-RateLimit-Reset"))
		if want == http.StatusTooManyRequests {
			body := decodeBody(t, resp)
			assert.Contains(t, body.Message, "Rate limit exceeded")
		}
	}
	assert.Equal(t, []string{"ip:203.0.113.7", "ip:203.0.113.7"}, limiter.keys)
}

func TestSession_WithoutAuth(t *testing.T) {
	app := infrastructures.NewFiberApp()
	app.Get("/", func(c *fiber.Ctx) error {
		_, err := Session(c)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAuthSession_TokenOutlivesRequest(t *testing.T) {
	auth := NewAuthMiddleware(fakeResolver{"tokenAAAA": admin, "tokenBBBB": admin})

	// a mutable app reuses request buffers, so the middleware must copy
	app := fiber.New()
	var kept []*models.ConsoleSession
	app.Get("/me", auth.AuthSession, func(c *fiber.Ctx) error {
		session, err := Session(c)
		if err != nil {
			return err
		}
		kept = append(kept, session)
		return c.SendStatus(http.StatusNoContent)
	})

	for _, token := range []string{"tokenAAAA", "tokenBBBB"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	require.Len(t, kept, 2)
	assert.Equal(t, "tokenAAAA", kept[0].Token)
	assert.Equal(t, "tokenBBBB", kept[1].Token)
}
