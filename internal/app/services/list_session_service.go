package services

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"
	"time"

	"github.com/safatanc/gsalt-console/internal/app/errors"
	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/internal/infrastructures"
	"github.com/safatanc/gsalt-console/pkg/listctl"
	"github.com/sirupsen/logrus"
)

type viewKey struct {
	actorID  string
	resource string
}

type openView struct {
	view        ListView
	token       string
	lastUsed    time.Time
	unsubscribe func()
}

// ListSessionService owns the open list views, one per operator and resource.
type ListSessionService struct {
	registry *ResourceRegistry
	queries  *QueryStore
	audit    *AuditService
	defaults listctl.Config
	idleTTL  time.Duration
	log      *logrus.Entry
	now      func() time.Time

	mu    sync.Mutex
	views map[viewKey]*openView
}

func NewListSessionService(
	registry *ResourceRegistry,
	queries *QueryStore,
	audit *AuditService,
	sessions *SessionService,
	config *infrastructures.AppConfig,
) *ListSessionService {
	s := &ListSessionService{
		registry: registry,
		queries:  queries,
		audit:    audit,
		defaults: listctl.Config{PageSize: config.LIST_PAGE_SIZE, Debounce: config.LIST_DEBOUNCE},
		idleTTL:  config.LIST_IDLE_TTL,
		log:      logrus.WithField("component", "list_sessions"),
		now:      time.Now,
		views:    map[viewKey]*openView{},
	}
	if sessions != nil {
		sessions.OnInvalidate(s.Close)
	}
	return s
}

// View returns the operator's view of resource, opening and loading it on
// first use. A view opened with another token is replaced.
func (s *ListSessionService) View(ctx context.Context, session *models.ConsoleSession, resource string) (ListView, error) {
	res, err := s.registry.Get(resource)
	if err != nil {
		return nil, err
	}
	key := viewKey{actorID: session.ActorID.String(), resource: res.Name()}

	s.mu.Lock()
	view, ok := s.reuseLocked(key, session.Token)
	s.mu.Unlock()
	if ok {
		return view, nil
	}

	// the saved query comes from redis, keep s.mu free meanwhile
	saved := s.loadQuery(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if view, ok := s.reuseLocked(key, session.Token); ok {
		return view, nil
	}
	s.closeLocked(key)

	open, err := s.openLocked(session, res, key, saved)
	if err != nil {
		return nil, err
	}
	return open.view, nil
}

func (s *ListSessionService) reuseLocked(key viewKey, token string) (ListView, bool) {
	open, ok := s.views[key]
	if !ok || open.token != token {
		return nil, false
	}
	open.lastUsed = s.now()
	return open.view, true
}

// loadQuery returns the operator's saved query, or nil. An unreadable one is
// dropped so the next open starts from the defaults.
func (s *ListSessionService) loadQuery(ctx context.Context, key viewKey) *models.SavedListQuery {
	saved, err := s.queries.Load(ctx, key.actorID, key.resource)
	if err == nil {
		return saved
	}

	log := s.log.WithField("resource", key.resource).WithError(err)
	if !stderrors.Is(err, ErrCorruptQuery) {
		log.Warn("failed to load saved list query")
		return nil
	}
	log.Warn("dropping unreadable saved list query")
	if err := s.queries.Delete(ctx, key.actorID, key.resource); err != nil {
		s.log.WithError(err).Warn("failed to drop saved list query")
	}
	return nil
}

func (s *ListSessionService) openLocked(session *models.ConsoleSession, res ListResource, key viewKey, saved *models.SavedListQuery) (*openView, error) {
	cfg := s.defaults
	if saved != nil {
		cfg.SearchTerm = saved.SearchTerm
		cfg.Page = saved.Page
		if saved.PageSize > 0 {
			cfg.PageSize = saved.PageSize
		}
		cfg.Filters = map[string]string{}
		for k, v := range saved.Filters {
			if res.AllowsFilter(k) {
				cfg.Filters[k] = v
			}
		}
	}

	log := s.log.WithField("actor", session.Username).WithField("resource", key.resource)
	view, err := res.NewView(cfg,
		listctl.WithLogger(log),
		listctl.WithContext(ContextWithToken(context.Background(), session.Token)),
	)
	if err != nil {
		return nil, err
	}

	unsubscribe := view.OnQueryChange(func(q listctl.Query) {
		saveCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.queries.Save(saveCtx, key.actorID, key.resource, q); err != nil {
			log.WithError(err).Warn("failed to save list query")
		}
	})

	open := &openView{view: view, token: session.Token, lastUsed: s.now(), unsubscribe: unsubscribe}
	s.views[key] = open
	view.Load()
	log.Debug("list view opened")
	return open, nil
}

// SetFilter applies a filter after checking the resource accepts the key.
func (s *ListSessionService) SetFilter(ctx context.Context, session *models.ConsoleSession, resource, key, value string) (ListView, error) {
	res, err := s.registry.Get(resource)
	if err != nil {
		return nil, err
	}
	if !res.AllowsFilter(key) {
		return nil, errors.NewBadRequestError("Unsupported filter " + key + " for " + resource)
	}
	view, err := s.View(ctx, session, resource)
	if err != nil {
		return nil, err
	}
	return view, view.SetFilter(key, value)
}

// DeleteOne deletes id through the view and records it in the audit log.
func (s *ListSessionService) DeleteOne(ctx context.Context, session *models.ConsoleSession, resource, id string) (ListView, error) {
	view, err := s.View(ctx, session, resource)
	if err != nil {
		return nil, err
	}

	deleteErr := view.DeleteOne(ContextWithToken(ctx, session.Token), id)
	if stderrors.Is(deleteErr, listctl.ErrClosed) {
		return view, deleteErr
	}

	var failed []string
	if deleteErr != nil {
		failed = []string{id}
	}
	s.logAction(session, resource, models.ConsoleActionDelete, []string{id}, failed)
	return view, deleteErr
}

// BulkDelete deletes the current selection through the view and records it in
// the audit log.
func (s *ListSessionService) BulkDelete(ctx context.Context, session *models.ConsoleSession, resource string) (ListView, error) {
	view, err := s.View(ctx, session, resource)
	if err != nil {
		return nil, err
	}

	ids := view.Selection()
	if len(ids) == 0 {
		return view, nil
	}

	deleteErr := view.BulkDelete(ContextWithToken(ctx, session.Token))
	if stderrors.Is(deleteErr, listctl.ErrClosed) {
		return view, deleteErr
	}

	var failed []string
	var bulkErr *listctl.PartialBulkFailureError[string]
	if stderrors.As(deleteErr, &bulkErr) {
		failed = bulkErr.FailedIDs()
		sort.Strings(failed)
	}
	s.logAction(session, resource, models.ConsoleActionBulkDelete, ids, failed)
	return view, deleteErr
}

func (s *ListSessionService) logAction(session *models.ConsoleSession, resource string, action models.ConsoleAction, ids, failed []string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogListAction(session, resource, action, ids, failed); err != nil {
		s.log.WithError(err).WithField("resource", resource).Error("failed to record audit log")
	}
}

// Close closes every view of the operator.
func (s *ListSessionService) Close(actorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.views {
		if key.actorID == actorID {
			s.closeLocked(key)
		}
	}
}

// CloseAll closes every open view.
func (s *ListSessionService) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.views {
		s.closeLocked(key)
	}
}

// OpenCount returns the number of open views.
func (s *ListSessionService) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func (s *ListSessionService) closeLocked(key viewKey) {
	open, ok := s.views[key]
	if !ok {
		return
	}
	delete(s.views, key)
	open.unsubscribe()
	open.view.Close()
}

// EvictIdle closes views that were not used within the idle TTL and returns
// how many it closed.
func (s *ListSessionService) EvictIdle() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for key, open := range s.views {
		if open.lastUsed.Before(cutoff) {
			s.closeLocked(key)
			evicted++
		}
	}
	return evicted
}

// RunIdleWorker evicts idle views until ctx is done.
func (s *ListSessionService) RunIdleWorker(ctx context.Context) {
	if s.idleTTL <= 0 {
		return
	}
	interval := s.idleTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.WithField("idle_ttl", s.idleTTL).Info("idle list worker started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info("idle list worker stopped")
			return
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				s.log.WithField("evicted", n).Info("closed idle list views")
			}
		}
	}
}
