// Package listctl coordinates a paginated, searchable, filterable list backed
// by a remote endpoint: debounced search, page clamping, row selection and
// single or bulk deletes, with responses applied in the order requests were
// intended rather than the order they arrive.
package listctl

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// Fetcher retrieves one page for q. It owns transport concerns such as
// credentials, retries and timeouts.
type Fetcher[T any] func(ctx context.Context, q Query) (PageResult[T], error)

// DeleteFunc removes a single item.
type DeleteFunc[ID comparable] func(ctx context.Context, id ID) error

// Snapshot is a read-only copy of the controller state.
type Snapshot[T any, ID comparable] struct {
	Items       []T
	Total       int
	Page        int
	TotalPages  int
	PageSize    int
	// StartItem and EndItem number the rows in Items, which stay those of the
	// last good result while Page already names the requested page.
	StartItem   int
	EndItem     int
	SearchInput string
	SearchTerm  string
	Filters     map[string]string
	Selection   []ID
	Loading     bool
	Loaded      bool
	Err         error
	Version     uint64
}

// Stats counts fetch activity since construction.
type Stats struct {
	Fetches     uint64
	Discarded   uint64
	Corrections uint64
}

// Controller is the single owner of one list's query, page and selection.
// All methods are safe for concurrent use; state changes are serialized.
type Controller[T any, ID comparable] struct {
	fetch  Fetcher[T]
	getID  func(T) ID
	log    *logrus.Entry
	ctx    context.Context
	cancel context.CancelFunc
	search *debouncer

	mu          sync.Mutex
	query       Query
	searchInput string
	result      PageResult[T]
	shown       Query
	ids         []ID
	present     map[ID]struct{}
	loaded      bool
	selected    selection[ID]
	epoch       uint64
	inflight    context.CancelFunc
	loading     bool
	err         error
	version     uint64
	closed      bool
	stats       Stats

	subMu     sync.Mutex
	subs      map[int]func(Snapshot[T, ID])
	nextSub   int
	delivered uint64
}

// New builds a controller. Nothing is fetched until Load is called.
func New[T any, ID comparable](fetch Fetcher[T], getID func(T) ID, cfg Config, opts ...Option) (*Controller[T, ID], error) {
	if fetch == nil || getID == nil {
		return nil, ErrInvalidArgument
	}
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(o.ctx)

	return &Controller[T, ID]{
		fetch:  fetch,
		getID:  getID,
		log:    o.logger,
		ctx:    ctx,
		cancel: cancel,
		search: newDebouncer(cfg.Debounce),
		query: Query{
			SearchTerm: strings.TrimSpace(cfg.SearchTerm),
			Filters:    cfg.Filters,
			Page:       cfg.Page,
			PageSize:   cfg.PageSize,
		},
		searchInput: cfg.SearchTerm,
		present:     map[ID]struct{}{},
		selected:    selection[ID]{},
		subs:        map[int]func(Snapshot[T, ID]){},
	}, nil
}

// Load fetches the current query. Call it once to show the first page.
func (c *Controller[T, ID]) Load() {
	c.mutate(func() bool {
		c.dispatchLocked(0)
		return true
	})
}

// SetSearchInput echoes text immediately and commits it as the search term
// once no other call has arrived for the debounce interval. The commit resets
// to page 1 and fetches.
func (c *Controller[T, ID]) SetSearchInput(text string) {
	c.mutate(func() bool {
		c.searchInput = text
		c.search.Trigger(func() { c.commitSearch(text) })
		return true
	})
}

func (c *Controller[T, ID]) commitSearch(text string) {
	c.mutate(func() bool {
		c.query.SearchTerm = strings.TrimSpace(text)
		c.query.Page = 1
		c.dispatchLocked(0)
		return true
	})
}

// SetFilter sets one filter and fetches page 1. An empty value removes the key.
func (c *Controller[T, ID]) SetFilter(key, value string) error {
	if key == "" {
		return ErrInvalidArgument
	}
	if !c.mutate(func() bool {
		if value == "" {
			delete(c.query.Filters, key)
		} else {
			c.query.Filters[key] = value
		}
		c.query.Page = 1
		c.dispatchLocked(0)
		return true
	}) {
		return ErrClosed
	}
	return nil
}

// ClearFilters removes every filter and fetches page 1.
func (c *Controller[T, ID]) ClearFilters() {
	c.mutate(func() bool {
		c.query.Filters = map[string]string{}
		c.query.Page = 1
		c.dispatchLocked(0)
		return true
	})
}

// SetPage moves to page n clamped to [1, totalPages]. Nothing is fetched when
// the clamped page is the current one.
func (c *Controller[T, ID]) SetPage(n int) {
	c.mutate(func() bool {
		page := clampPage(n, c.viewLocked().TotalPages)
		if page == c.query.Page {
			return false
		}
		c.query.Page = page
		c.dispatchLocked(0)
		return true
	})
}

// SetPageSize changes the page size and fetches page 1.
func (c *Controller[T, ID]) SetPageSize(n int) error {
	if n < 1 {
		return ErrInvalidArgument
	}
	if !c.mutate(func() bool {
		c.query.PageSize = n
		c.query.Page = 1
		c.dispatchLocked(0)
		return true
	}) {
		return ErrClosed
	}
	return nil
}

// Refresh re-fetches the current query and clears the selection.
func (c *Controller[T, ID]) Refresh() {
	c.mutate(func() bool {
		c.selected.clear()
		c.dispatchLocked(0)
		return true
	})
}

// Retry re-runs the fetch that failed. It reports false when the current
// error is not a fetch failure.
func (c *Controller[T, ID]) Retry() bool {
	retried := false
	c.mutate(func() bool {
		if KindOf(c.err) != KindFetchFailed {
			return false
		}
		retried = true
		c.dispatchLocked(0)
		return true
	})
	return retried
}

// ToggleSelect flips the selection of id and returns the new state. Ids that
// are not on the current page are ignored.
func (c *Controller[T, ID]) ToggleSelect(id ID) bool {
	selected := false
	c.mutate(func() bool {
		if _, ok := c.present[id]; !ok {
			return false
		}
		if c.selected.has(id) {
			delete(c.selected, id)
		} else {
			c.selected[id] = struct{}{}
			selected = true
		}
		return true
	})
	return selected
}

// ToggleSelectAll selects every item on the current page, or clears the
// selection when the whole page is already selected.
func (c *Controller[T, ID]) ToggleSelectAll() {
	c.mutate(func() bool {
		if len(c.ids) == 0 {
			return false
		}
		if len(c.selected) == len(c.present) {
			c.selected.clear()
			return true
		}
		c.selected.clear()
		for _, id := range c.ids {
			c.selected[id] = struct{}{}
		}
		return true
	})
}

// ClearSelection unchecks everything.
func (c *Controller[T, ID]) ClearSelection() {
	c.mutate(func() bool {
		if len(c.selected) == 0 {
			return false
		}
		c.selected.clear()
		return true
	})
}

// ClearError dismisses the current error.
func (c *Controller[T, ID]) ClearError() {
	c.mutate(func() bool {
		if c.err == nil {
			return false
		}
		c.err = nil
		return true
	})
}

// DeleteOne deletes id and refreshes. On failure the list is left as it was
// and a *MutationFailedError is recorded and returned.
func (c *Controller[T, ID]) DeleteOne(ctx context.Context, id ID, del DeleteFunc[ID]) error {
	if del == nil {
		return ErrInvalidArgument
	}
	if c.isClosed() {
		return ErrClosed
	}

	if err := del(ctx, id); err != nil {
		mutErr := &MutationFailedError{ID: id, Err: err}
		c.log.WithError(err).WithField("id", id).Warn("delete failed")
		c.mutate(func() bool {
			c.err = mutErr
			return true
		})
		return mutErr
	}

	c.mutate(func() bool {
		c.clearMutationErrorLocked()
		c.selected.clear()
		c.dispatchLocked(0)
		return true
	})
	return nil
}

// BulkDelete deletes every selected id concurrently and waits for all of them.
// When all succeed the selection is cleared; when some fail a
// *PartialBulkFailureError is recorded and returned and the selection is kept
// until the refresh reconciles it. Both paths refresh exactly once.
func (c *Controller[T, ID]) BulkDelete(ctx context.Context, del DeleteFunc[ID]) error {
	if del == nil {
		return ErrInvalidArgument
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	ids := c.selected.ordered(c.ids)
	c.mu.Unlock()
	if len(ids) == 0 {
		return nil
	}

	var (
		failedMu sync.Mutex
		failed   = map[ID]error{}
		wg       conc.WaitGroup
	)
	for _, id := range ids {
		id := id
		wg.Go(func() {
			if err := del(ctx, id); err != nil {
				failedMu.Lock()
				failed[id] = err
				failedMu.Unlock()
			}
		})
	}
	wg.Wait()

	if len(failed) == 0 {
		c.mutate(func() bool {
			c.clearMutationErrorLocked()
			c.selected.clear()
			c.dispatchLocked(0)
			return true
		})
		return nil
	}

	bulkErr := &PartialBulkFailureError[ID]{Attempted: len(ids), Failed: failed}
	c.log.WithError(bulkErr).Warn("bulk delete partially failed")
	c.mutate(func() bool {
		c.err = bulkErr
		c.dispatchLocked(0)
		return true
	})
	return bulkErr
}

// Snapshot returns the current state.
func (c *Controller[T, ID]) Snapshot() Snapshot[T, ID] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Query returns the committed query.
func (c *Controller[T, ID]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.Clone()
}

// Stats returns fetch counters.
func (c *Controller[T, ID]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Subscribe registers fn to receive every new snapshot. Snapshots are
// delivered in Version order and older ones are skipped. fn must not call back
// into the controller synchronously.
func (c *Controller[T, ID]) Subscribe(fn func(Snapshot[T, ID])) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

// Close stops the debounce timer and cancels in-flight fetches. Later calls
// are no-ops.
func (c *Controller[T, ID]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.loading = false
	c.mu.Unlock()

	c.search.Stop()
	c.cancel()
}

func (c *Controller[T, ID]) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// mutate runs fn under the lock and publishes a snapshot when fn reports a
// change. It returns false when the controller is closed.
func (c *Controller[T, ID]) mutate(fn func() bool) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if !fn() {
		c.mu.Unlock()
		return true
	}
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.deliver(snap)
	return true
}

func (c *Controller[T, ID]) deliver(snap Snapshot[T, ID]) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if snap.Version <= c.delivered {
		return
	}
	c.delivered = snap.Version
	for _, fn := range c.subs {
		fn(snap)
	}
}

// dispatchLocked starts a fetch for the current query under a new epoch and
// cancels the one it supersedes.
func (c *Controller[T, ID]) dispatchLocked(depth int) {
	c.epoch++
	epoch := c.epoch
	q := c.query.Clone()

	if c.inflight != nil {
		c.inflight()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.inflight = cancel
	c.loading = true
	c.stats.Fetches++

	go c.run(ctx, cancel, epoch, q, depth)
}

func (c *Controller[T, ID]) run(ctx context.Context, cancel context.CancelFunc, epoch uint64, q Query, depth int) {
	defer cancel()
	res, err := c.fetch(ctx, q)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if epoch != c.epoch {
		c.stats.Discarded++
		latest := c.epoch
		c.mu.Unlock()
		c.log.WithError(ErrStaleResponse).
			WithField("epoch", epoch).
			WithField("latest", latest).
			Debug("discarding response for superseded fetch")
		return
	}
	c.inflight = nil

	if err != nil {
		c.err = &FetchFailedError{Query: q, Err: err}
		c.loading = false
		c.log.WithError(err).
			WithField("page", q.Page).
			WithField("search", q.SearchTerm).
			Warn("fetch page failed")
	} else {
		c.applyLocked(res, q, depth)
	}

	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.deliver(snap)
}

// applyLocked installs a current-epoch result. A page past the end triggers a
// single corrective fetch of the last page instead of being shown.
func (c *Controller[T, ID]) applyLocked(res PageResult[T], q Query, depth int) {
	view := Paginate(res.Total, q.PageSize, q.Page)
	if q.Page > view.TotalPages {
		c.query.Page = view.TotalPages
		if depth == 0 {
			c.stats.Corrections++
			c.log.WithField("page", q.Page).
				WithField("total_pages", view.TotalPages).
				Debug("page past the end, fetching last page")
			c.dispatchLocked(depth + 1)
			return
		}
	}

	items := make([]T, len(res.Items))
	copy(items, res.Items)
	c.result = PageResult[T]{Items: items, Total: res.Total}
	c.shown = q
	c.ids = make([]ID, len(items))
	c.present = make(map[ID]struct{}, len(items))
	for i, item := range items {
		id := c.getID(item)
		c.ids[i] = id
		c.present[id] = struct{}{}
	}
	c.loaded = true

	if dropped := c.selected.reconcile(c.present); dropped > 0 {
		c.log.WithField("dropped", dropped).Debug("selection reconciled")
	}
	if KindOf(c.err) == KindFetchFailed {
		c.err = nil
	}
	c.loading = false
}

func (c *Controller[T, ID]) clearMutationErrorLocked() {
	switch KindOf(c.err) {
	case KindMutationFailed, KindPartialBulkFailure:
		c.err = nil
	}
}

func (c *Controller[T, ID]) viewLocked() PaginationView {
	return Paginate(c.result.Total, c.query.PageSize, c.query.Page)
}

func (c *Controller[T, ID]) snapshotLocked() Snapshot[T, ID] {
	view := c.viewLocked()
	window := Paginate(c.result.Total, c.shown.PageSize, c.shown.Page)
	items := make([]T, len(c.result.Items))
	copy(items, c.result.Items)
	return Snapshot[T, ID]{
		Items:       items,
		Total:       c.result.Total,
		Page:        c.query.Page,
		TotalPages:  view.TotalPages,
		PageSize:    c.query.PageSize,
		StartItem:   window.StartItem,
		EndItem:     window.EndItem,
		SearchInput: c.searchInput,
		SearchTerm:  c.query.SearchTerm,
		Filters:     c.query.Clone().Filters,
		Selection:   c.selected.ordered(c.ids),
		Loading:     c.loading,
		Loaded:      c.loaded,
		Err:         c.err,
		Version:     c.version,
	}
}
