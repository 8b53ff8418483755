package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/pkg/listctl"
)

// ErrCorruptQuery marks a saved query that no longer decodes.
var ErrCorruptQuery = stderrors.New("saved list query is unreadable")

// QueryStore remembers the last committed query of every operator's lists.
type QueryStore struct {
	store KVStore
}

func NewQueryStore(store KVStore) *QueryStore {
	return &QueryStore{store: store}
}

func queryKey(actorID, resource string) string {
	return "query:" + actorID + ":" + resource
}

// Load returns the saved query, or nil when there is none.
func (s *QueryStore) Load(ctx context.Context, actorID, resource string) (*models.SavedListQuery, error) {
	var saved models.SavedListQuery
	found, err := s.store.GetJSON(ctx, queryKey(actorID, resource), &saved)
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &syntaxErr) || stderrors.As(err, &typeErr) {
		return nil, fmt.Errorf("%w: %v", ErrCorruptQuery, err)
	}
	if err != nil || !found {
		return nil, err
	}
	return &saved, nil
}

func (s *QueryStore) Save(ctx context.Context, actorID, resource string, q listctl.Query) error {
	saved := models.SavedListQuery{
		SearchTerm: q.SearchTerm,
		Filters:    q.Filters,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
	return s.store.SetJSON(ctx, queryKey(actorID, resource), saved, 0)
}

// Delete forgets the saved query.
func (s *QueryStore) Delete(ctx context.Context, actorID, resource string) error {
	return s.store.Del(ctx, queryKey(actorID, resource))
}
