package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/pkg/listctl"
)

// ListView is a list controller with its item type erased, so views of
// different resources can live in one registry.
type ListView interface {
	Load()
	Snapshot() *models.ListViewResponse
	Query() listctl.Query
	Selection() []string
	SetSearchInput(text string)
	SetFilter(key, value string) error
	ClearFilters()
	SetPage(page int)
	SetPageSize(size int) error
	Refresh()
	Retry() bool
	ToggleSelect(id string) bool
	ToggleSelectAll()
	ClearSelection()
	ClearError()
	DeleteOne(ctx context.Context, id string) error
	BulkDelete(ctx context.Context) error
	OnQueryChange(fn func(listctl.Query)) (unsubscribe func())
	Close()
}

type listView[T any] struct {
	resource string
	filters  []string
	ctl      *listctl.Controller[T, string]
	del      listctl.DeleteFunc[string]
}

func (v *listView[T]) Load()                             { v.ctl.Load() }
func (v *listView[T]) Query() listctl.Query              { return v.ctl.Query() }
func (v *listView[T]) SetSearchInput(text string)        { v.ctl.SetSearchInput(text) }
func (v *listView[T]) SetFilter(key, value string) error { return v.ctl.SetFilter(key, value) }
func (v *listView[T]) ClearFilters()                     { v.ctl.ClearFilters() }
func (v *listView[T]) SetPage(page int)                  { v.ctl.SetPage(page) }
func (v *listView[T]) SetPageSize(size int) error        { return v.ctl.SetPageSize(size) }
func (v *listView[T]) Refresh()                          { v.ctl.Refresh() }
func (v *listView[T]) Retry() bool                       { return v.ctl.Retry() }
func (v *listView[T]) ToggleSelect(id string) bool       { return v.ctl.ToggleSelect(id) }
func (v *listView[T]) ToggleSelectAll()                  { v.ctl.ToggleSelectAll() }
func (v *listView[T]) ClearSelection()                   { v.ctl.ClearSelection() }
func (v *listView[T]) ClearError()                       { v.ctl.ClearError() }
func (v *listView[T]) Close()                            { v.ctl.Close() }

func (v *listView[T]) Selection() []string {
	return v.ctl.Snapshot().Selection
}

func (v *listView[T]) DeleteOne(ctx context.Context, id string) error {
	return v.ctl.DeleteOne(ctx, id, v.del)
}

func (v *listView[T]) BulkDelete(ctx context.Context) error {
	return v.ctl.BulkDelete(ctx, v.del)
}

// OnQueryChange calls fn with the committed query whenever it differs from the
// last one seen.
func (v *listView[T]) OnQueryChange(fn func(listctl.Query)) func() {
	last := v.ctl.Query()
	return v.ctl.Subscribe(func(s listctl.Snapshot[T, string]) {
		q := listctl.Query{SearchTerm: s.SearchTerm, Filters: s.Filters, Page: s.Page, PageSize: s.PageSize}
		if q.Equal(last) {
			return
		}
		last = q.Clone()
		fn(q)
	})
}

func (v *listView[T]) Snapshot() *models.ListViewResponse {
	s := v.ctl.Snapshot()
	items := s.Items
	if items == nil {
		items = []T{}
	}
	selection := s.Selection
	if selection == nil {
		selection = []string{}
	}
	return &models.ListViewResponse{
		Resource:       v.resource,
		Items:          items,
		Total:          s.Total,
		Page:           s.Page,
		TotalPages:     s.TotalPages,
		PageSize:       s.PageSize,
		StartItem:      s.StartItem,
		EndItem:        s.EndItem,
		HasNext:        s.Page < s.TotalPages,
		HasPrev:        s.Page > 1,
		SearchInput:    s.SearchInput,
		SearchTerm:     s.SearchTerm,
		Filters:        s.Filters,
		AllowedFilters: v.filters,
		Selection:      selection,
		Loading:        s.Loading,
		Loaded:         s.Loaded,
		Error:          listError(s.Err),
		Version:        s.Version,
	}
}

func listError(err error) *models.ListError {
	if err == nil {
		return nil
	}
	out := &models.ListError{Kind: string(listctl.KindOf(err)), Message: err.Error()}

	var mutErr *listctl.MutationFailedError
	if stderrors.As(err, &mutErr) {
		out.ID = fmt.Sprint(mutErr.ID)
	}
	var bulkErr *listctl.PartialBulkFailureError[string]
	if stderrors.As(err, &bulkErr) {
		out.FailedIDs = bulkErr.FailedIDs()
		sort.Strings(out.FailedIDs)
	}
	return out
}
