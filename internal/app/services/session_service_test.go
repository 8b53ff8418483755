package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/safatanc/gsalt-console/internal/app/errors"
	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/pkg/listctl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_ResolveCachesSession(t *testing.T) {
	api := newFakeAdminAPI(t, 0)
	store := newMemoryStore()
	sessions := NewSessionService(newTestClient(testConfig(api.server.URL)), store, testConfig(api.server.URL))

	session, err := sessions.Resolve(context.Background(), "Bearer "+adminToken)
	require.NoError(t, err)
	assert.Equal(t, adminUser.ID, session.ActorID)
	assert.Equal(t, "root", session.Username)
	assert.Equal(t, adminToken, session.Token)
	assert.True(t, session.IsAdmin())

	again, err := sessions.Resolve(context.Background(), adminToken)
	require.NoError(t, err)
	assert.Equal(t, session.ActorID, again.ActorID)
	assert.Equal(t, adminToken, again.Token)
	assert.Equal(t, 1, api.callCount("GET /users/me"))

	key := sessionKey(adminToken)
	assert.True(t, store.has(key))
	assert.Equal(t, time.Minute, store.ttls[key])
	assert.NotContains(t, string(store.values[key]), adminToken)
}

func TestSessionService_ResolveRejects(t *testing.T) {
	api := newFakeAdminAPI(t, 0)
	sessions := NewSessionService(newTestClient(testConfig(api.server.URL)), newMemoryStore(), testConfig(api.server.URL))

	_, err := sessions.Resolve(context.Background(), "  ")
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)

	_, err = sessions.Resolve(context.Background(), "Bearer forged")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
	assert.Equal(t, "token expired", appErr.Message)
}

func TestSessionService_InvalidateRunsHooks(t *testing.T) {
	api := newFakeAdminAPI(t, 0)
	store := newMemoryStore()
	sessions := NewSessionService(newTestClient(testConfig(api.server.URL)), store, testConfig(api.server.URL))

	var closed []string
	sessions.OnInvalidate(func(actorID string) { closed = append(closed, actorID) })

	_, err := sessions.Resolve(context.Background(), adminToken)
	require.NoError(t, err)

	sessions.Invalidate(adminToken)
	assert.False(t, store.has(sessionKey(adminToken)))
	assert.Equal(t, []string{adminUser.ID.String()}, closed)

	sessions.Invalidate(adminToken)
	assert.Len(t, closed, 1, "unknown sessions do not run hooks")
}

func TestSessionService_UnauthorizedResponseInvalidates(t *testing.T) {
	api := newFakeAdminAPI(t, 0)
	store := newMemoryStore()
	client := newTestClient(testConfig(api.server.URL))
	sessions := NewSessionService(client, store, testConfig(api.server.URL))

	// a cached session whose token the admin API no longer accepts
	stale := &models.ConsoleSession{ActorID: adminUser.ID, Username: "root", Role: models.UserRoleAdmin}
	require.NoError(t, store.SetJSON(context.Background(), sessionKey("revoked"), stale, time.Minute))

	var closed []string
	sessions.OnInvalidate(func(actorID string) { closed = append(closed, actorID) })

	_, err := client.Get(ContextWithToken(context.Background(), "revoked"), "/accounts", nil)
	require.Error(t, err)
	assert.False(t, store.has(sessionKey("revoked")))
	assert.Equal(t, []string{adminUser.ID.String()}, closed)
}

func TestQueryStore_SaveLoad(t *testing.T) {
	store := newMemoryStore()
	queries := NewQueryStore(store)
	ctx := context.Background()

	saved, err := queries.Load(ctx, "actor", "accounts")
	require.NoError(t, err)
	assert.Nil(t, saved)

	q := listctl.Query{SearchTerm: "ana", Filters: map[string]string{"status": "ACTIVE"}, Page: 3, PageSize: 25}
	require.NoError(t, queries.Save(ctx, "actor", "accounts", q))

	saved, err = queries.Load(ctx, "actor", "accounts")
	require.NoError(t, err)
	assert.Equal(t, &models.SavedListQuery{SearchTerm: "ana", Filters: map[string]string{"status": "ACTIVE"}, Page: 3, PageSize: 25}, saved)
	assert.Equal(t, time.Duration(0), store.ttls[queryKey("actor", "accounts")])

	require.NoError(t, queries.Delete(ctx, "actor", "accounts"))
	saved, err = queries.Load(ctx, "actor", "accounts")
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestQueryStore_UnreadableValue(t *testing.T) {
	store := newMemoryStore()
	store.values[queryKey("actor", "accounts")] = []byte(`{"page":"three"}`)

	saved, err := NewQueryStore(store).Load(context.Background(), "actor", "accounts")
	assert.Nil(t, saved)
	require.ErrorIs(t, err, ErrCorruptQuery)
}
