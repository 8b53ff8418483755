package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/internal/infrastructures"
	"github.com/shopspring/decimal"
)

const (
	adminToken    = "admin-token"
	operatorToken = "operator-token"
)

var adminUser = models.User{
	ID:         uuid.MustParse("7d1f8a52-6c1b-4f5e-9b0e-0d9c2f3f1a01"),
	Username:   "root",
	FullName:   "Root Admin",
	GlobalRole: models.UserRoleAdmin,
}

// memoryStore is an in-memory KVStore.
type memoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	ttls   map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (s *memoryStore) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (s *memoryStore) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	s.ttls[key] = ttl
	return nil
}

func (s *memoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
		delete(s.ttls, key)
	}
	return nil
}

func (s *memoryStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

// fakeAdminAPI serves /users/me and an /accounts collection.
type fakeAdminAPI struct {
	mu         sync.Mutex
	accounts   []models.Account
	failDelete map[string]int
	calls      map[string]int
	server     *httptest.Server
}

func newFakeAdminAPI(t *testing.T, accounts int) *fakeAdminAPI {
	t.Helper()
	api := &fakeAdminAPI{failDelete: map[string]int{}, calls: map[string]int{}}
	for i := 1; i <= accounts; i++ {
		api.accounts = append(api.accounts, models.Account{
			ID:       uuid.New(),
			Username: "user" + strconv.Itoa(i),
			Status:   models.AccountStatusActive,
			Balance:  decimal.NewFromInt(int64(i * 100)),
		})
	}
	api.server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAdminAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls[r.Method+" "+r.URL.Path]++

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token != adminToken && token != operatorToken {
		writeJSON(w, http.StatusUnauthorized, models.WebResponse[any]{Message: "token expired"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/users/me":
		user := adminUser
		if token == operatorToken {
			user.ID = uuid.MustParse("7d1f8a52-6c1b-4f5e-9b0e-0d9c2f3f1a02")
			user.Username = "operator"
			user.GlobalRole = models.UserRoleUser
		}
		writeJSON(w, http.StatusOK, models.WebResponse[models.User]{Success: true, Data: user})

	case r.Method == http.MethodGet && r.URL.Path == "/accounts":
		a.listAccounts(w, r)

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/accounts/"):
		id := strings.TrimPrefix(r.URL.Path, "/accounts/")
		if status, ok := a.failDelete[id]; ok {
			writeJSON(w, status, models.WebResponse[any]{Message: "account has pending transactions"})
			return
		}
		for i, acc := range a.accounts {
			if acc.ID.String() == id {
				a.accounts = append(a.accounts[:i], a.accounts[i+1:]...)
				writeJSON(w, http.StatusOK, models.WebResponse[any]{Success: true})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, models.WebResponse[any]{Message: "account not found"})

	default:
		writeJSON(w, http.StatusNotFound, models.WebResponse[any]{Message: "not found"})
	}
}

func (a *fakeAdminAPI) listAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	search := q.Get("search")
	status := q.Get("status")

	matched := []models.Account{}
	for _, acc := range a.accounts {
		if search != "" && !strings.Contains(acc.Username, search) {
			continue
		}
		if status != "" && string(acc.Status) != status {
			continue
		}
		matched = append(matched, acc)
	}

	start := min((page-1)*limit, len(matched))
	end := min(start+limit, len(matched))
	totalPages := max((len(matched)+limit-1)/limit, 1)

	writeJSON(w, http.StatusOK, models.WebResponse[models.Pagination[[]models.Account]]{
		Success: true,
		Data: models.Pagination[[]models.Account]{
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
			TotalItems: len(matched),
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
			Items:      matched[start:end],
		},
	})
}

func (a *fakeAdminAPI) callCount(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[key]
}

func (a *fakeAdminAPI) accountIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]string, len(a.accounts))
	for i, acc := range a.accounts {
		ids[i] = acc.ID.String()
	}
	return ids
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func testConfig(baseURL string) *infrastructures.AppConfig {
	return &infrastructures.AppConfig{
		ADMIN_API_BASE_URL:    baseURL,
		ADMIN_API_TIMEOUT:     2 * time.Second,
		ADMIN_API_MAX_RETRIES: 2,
		LIST_DEBOUNCE:         20 * time.Millisecond,
		LIST_PAGE_SIZE:        5,
		LIST_IDLE_TTL:         time.Minute,
		SESSION_CACHE_TTL:     time.Minute,
	}
}

func newTestClient(cfg *infrastructures.AppConfig) *APIClient {
	client := NewAPIClient(cfg)
	client.retryWait = time.Millisecond
	return client
}
