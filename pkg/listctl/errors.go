package listctl

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument is returned synchronously for caller contract violations.
	ErrInvalidArgument = errors.New("listctl: invalid argument")

	// ErrStaleResponse marks a response that arrived for a superseded fetch.
	// It is only ever logged.
	ErrStaleResponse = errors.New("listctl: stale response discarded")

	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("listctl: controller closed")
)

// FetchFailedError means the page for Query could not be retrieved. The last
// good page stays visible.
type FetchFailedError struct {
	Query Query
	Err   error
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetch page %d failed: %v", e.Query.Page, e.Err)
}

func (e *FetchFailedError) Unwrap() error { return e.Err }

// MutationFailedError means a single-item mutation (delete) was rejected.
type MutationFailedError struct {
	ID  any
	Err error
}

func (e *MutationFailedError) Error() string {
	return fmt.Sprintf("delete %v failed: %v", e.ID, e.Err)
}

func (e *MutationFailedError) Unwrap() error { return e.Err }

// PartialBulkFailureError reports the ids a bulk delete could not remove.
type PartialBulkFailureError[ID comparable] struct {
	Attempted int
	Failed    map[ID]error
}

func (e *PartialBulkFailureError[ID]) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("bulk delete: %d of %d failed (%s)", len(e.Failed), e.Attempted, strings.Join(ids, ", "))
}

// FailedIDs returns the ids whose deletion failed.
func (e *PartialBulkFailureError[ID]) FailedIDs() []ID {
	out := make([]ID, 0, len(e.Failed))
	for id := range e.Failed {
		out = append(out, id)
	}
	return out
}

func (e *PartialBulkFailureError[ID]) Unwrap() []error {
	out := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		out = append(out, err)
	}
	return out
}

// Kind classifies an error produced by a controller.
type Kind string

const (
	KindNone               Kind = ""
	KindFetchFailed        Kind = "fetch_failed"
	KindMutationFailed     Kind = "mutation_failed"
	KindPartialBulkFailure Kind = "partial_bulk_failure"
	KindInvalidArgument    Kind = "invalid_argument"
	KindUnknown            Kind = "unknown"
)

// bulkFailure lets KindOf match PartialBulkFailureError for any ID type.
type bulkFailure interface {
	error
	partialBulkFailure()
}

func (e *PartialBulkFailureError[ID]) partialBulkFailure() {}

// KindOf classifies err.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var fetchErr *FetchFailedError
	if errors.As(err, &fetchErr) {
		return KindFetchFailed
	}
	var mutErr *MutationFailedError
	if errors.As(err, &mutErr) {
		return KindMutationFailed
	}
	var bulkErr bulkFailure
	if errors.As(err, &bulkErr) {
		return KindPartialBulkFailure
	}
	if errors.Is(err, ErrInvalidArgument) {
		return KindInvalidArgument
	}
	return KindUnknown
}
