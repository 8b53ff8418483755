package listctl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type row struct {
	ID     string
	Name   string
	Status string
}

func rowID(r row) string { return r.ID }

func rows(ids ...string) []row {
	out := make([]row, len(ids))
	for i, id := range ids {
		out[i] = row{ID: id, Name: "row " + id}
	}
	return out
}

// dataset answers fetches immediately from an in-memory table.
type dataset struct {
	mu    sync.Mutex
	rows  []row
	calls []Query
}

func newDataset(n int) *dataset {
	d := &dataset{}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("%03d", i)
		d.rows = append(d.rows, row{ID: id, Name: "customer " + id, Status: "active"})
	}
	return d
}

func (d *dataset) fetch(_ context.Context, q Query) (PageResult[row], error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, q.Clone())

	var matched []row
	for _, r := range d.rows {
		if q.SearchTerm != "" && !strings.Contains(r.Name, q.SearchTerm) {
			continue
		}
		if status, ok := q.Filters["status"]; ok && r.Status != status {
			continue
		}
		matched = append(matched, r)
	}
	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return PageResult[row]{Items: append([]row(nil), matched[start:end]...), Total: len(matched)}, nil
}

func (d *dataset) remove(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, r := range d.rows {
		if r.ID == id {
			d.rows = append(d.rows[:i], d.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (d *dataset) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func (d *dataset) lastCall() Query {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[len(d.calls)-1]
}

// manualFetcher parks every fetch until the test resolves it.
type manualFetcher struct {
	calls chan *pendingFetch
}

type fetchOutcome struct {
	page PageResult[row]
	err  error
}

type pendingFetch struct {
	ctx  context.Context
	q    Query
	done chan fetchOutcome
}

func newManualFetcher() *manualFetcher {
	return &manualFetcher{calls: make(chan *pendingFetch, 64)}
}

func (m *manualFetcher) fetch(ctx context.Context, q Query) (PageResult[row], error) {
	p := &pendingFetch{ctx: ctx, q: q.Clone(), done: make(chan fetchOutcome, 1)}
	m.calls <- p
	out := <-p.done
	return out.page, out.err
}

func (m *manualFetcher) next(t *testing.T) *pendingFetch {
	t.Helper()
	select {
	case p := <-m.calls:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("expected a fetch")
		return nil
	}
}

func (m *manualFetcher) none(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case p := <-m.calls:
		t.Fatalf("unexpected fetch for %+v", p.q)
	case <-time.After(wait):
	}
}

func (p *pendingFetch) resolve(items []row, total int) {
	p.done <- fetchOutcome{page: PageResult[row]{Items: items, Total: total}}
}

func (p *pendingFetch) reject(err error) {
	p.done <- fetchOutcome{err: err}
}

func newController(t *testing.T, fetch Fetcher[row], cfg Config) *Controller[row, string] {
	t.Helper()
	c, err := New(fetch, rowID, cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func waitFor(t *testing.T, c *Controller[row, string], cond func(Snapshot[row, string]) bool) Snapshot[row, string] {
	t.Helper()
	require.Eventually(t, func() bool { return cond(c.Snapshot()) }, 2*time.Second, 5*time.Millisecond)
	return c.Snapshot()
}

func settled(s Snapshot[row, string]) bool { return s.Loaded && !s.Loading }

func itemIDs(items []row) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}
