package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/safatanc/gsalt-console/internal/app/errors"
	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/internal/infrastructures"
	"github.com/sirupsen/logrus"
)

// KVStore keeps JSON values by key.
type KVStore interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// SessionService resolves bearer tokens to console operators, caching the
// answer of the admin API's /users/me.
type SessionService struct {
	client *APIClient
	store  KVStore
	ttl    time.Duration

	mu           sync.RWMutex
	onInvalidate []func(actorID string)
}

func NewSessionService(client *APIClient, store KVStore, config *infrastructures.AppConfig) *SessionService {
	s := &SessionService{
		client: client,
		store:  store,
		ttl:    config.SESSION_CACHE_TTL,
	}
	client.OnUnauthorized(s.Invalidate)
	return s
}

func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

// Resolve returns the operator behind accessToken.
func (s *SessionService) Resolve(ctx context.Context, accessToken string) (*models.ConsoleSession, error) {
	token := strings.Clone(strings.TrimSpace(strings.TrimPrefix(accessToken, "Bearer ")))
	if token == "" {
		return nil, errors.NewUnauthorizedError("Access token is required")
	}

	var cached models.ConsoleSession
	found, err := s.store.GetJSON(ctx, sessionKey(token), &cached)
	if err != nil {
		logrus.WithError(err).Warn("session cache read failed")
	}
	if found {
		cached.Token = token
		return &cached, nil
	}

	user, err := s.GetCurrentUser(ContextWithToken(ctx, token))
	if err != nil {
		return nil, err
	}

	session := models.NewConsoleSession(user, token)
	if err := s.store.SetJSON(ctx, sessionKey(token), session, s.ttl); err != nil {
		logrus.WithError(err).Warn("session cache write failed")
	}
	return session, nil
}

// GetCurrentUser asks the admin API who owns the token on ctx.
func (s *SessionService) GetCurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.client.GetJSON(ctx, "/users/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// OnInvalidate registers fn to run with the operator id of every invalidated
// session.
func (s *SessionService) OnInvalidate(fn func(actorID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvalidate = append(s.onInvalidate, fn)
}

// Invalidate forgets the session of token. It is called when the admin API
// rejects the token.
func (s *SessionService) Invalidate(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := sessionKey(token)
	var cached models.ConsoleSession
	found, err := s.store.GetJSON(ctx, key, &cached)
	if err != nil {
		logrus.WithError(err).Warn("session cache read failed")
	}
	if err := s.store.Del(ctx, key); err != nil {
		logrus.WithError(err).Warn("session cache delete failed")
	}
	if !found {
		return
	}

	logrus.WithField("actor", cached.Username).Info("console session invalidated")
	s.mu.RLock()
	hooks := append([]func(string){}, s.onInvalidate...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn(cached.ActorID.String())
	}
}
