package services

import (
	"context"
	"net/url"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/safatanc/gsalt-console/internal/app/errors"
	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/pkg/listctl"
)

// ListResource is one list the console can show.
type ListResource interface {
	Name() string
	AllowsFilter(key string) bool
	NewView(cfg listctl.Config, opts ...listctl.Option) (ListView, error)
}

// Resource reads and deletes items of one admin API collection.
type Resource[T any] struct {
	name    string
	path    string
	filters map[string]struct{}
	getID   func(T) string
	client  *APIClient
}

func NewResource[T any](client *APIClient, name, path string, getID func(T) string, filters ...string) *Resource[T] {
	allowed := make(map[string]struct{}, len(filters))
	for _, f := range filters {
		allowed[f] = struct{}{}
	}
	return &Resource[T]{
		name:    name,
		path:    path,
		filters: allowed,
		getID:   getID,
		client:  client,
	}
}

func (r *Resource[T]) Name() string {
	return r.name
}

func (r *Resource[T]) AllowsFilter(key string) bool {
	_, ok := r.filters[key]
	return ok
}

// Filters returns the accepted filter keys in order.
func (r *Resource[T]) Filters() []string {
	keys := make([]string, 0, len(r.filters))
	for key := range r.filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FetchPage is the listctl.Fetcher of the resource.
func (r *Resource[T]) FetchPage(ctx context.Context, q listctl.Query) (listctl.PageResult[T], error) {
	body, err := r.client.Get(ctx, r.path, EncodeQuery(q))
	if err != nil {
		return listctl.PageResult[T]{}, err
	}
	return DecodePage[T](body)
}

// Delete is the listctl.DeleteFunc of the resource.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NewBadRequestError("Invalid " + r.name + " ID format")
	}
	return r.client.Delete(ctx, r.path+"/"+url.PathEscape(id))
}

func (r *Resource[T]) NewView(cfg listctl.Config, opts ...listctl.Option) (ListView, error) {
	ctl, err := listctl.New(r.FetchPage, r.getID, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &listView[T]{resource: r.name, filters: r.Filters(), ctl: ctl, del: r.Delete}, nil
}

// EncodeQuery renders q as admin API query parameters. The search parameter is
// left out when empty.
func EncodeQuery(q listctl.Query) url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.PageSize))
	if q.SearchTerm != "" {
		values.Set("search", q.SearchTerm)
	}
	for key, value := range q.Filters {
		values.Set(key, value)
	}
	return values
}

// ResourceRegistry holds the lists the console knows about.
type ResourceRegistry struct {
	resources map[string]ListResource
}

func NewResourceRegistry(client *APIClient) *ResourceRegistry {
	return NewResourceRegistryOf(
		NewResource(client, "accounts", "/accounts", models.Account.ItemID, "status"),
		NewResource(client, "transactions", "/transactions", models.Transaction.ItemID, "type", "status", "account_id"),
		NewResource(client, "users", "/users", models.User.ItemID, "global_role", "status"),
		NewResource(client, "customers", "/customers", models.Customer.ItemID, "status", "segment"),
		NewResource(client, "vouchers", "/vouchers", models.Voucher.ItemID, "type", "status"),
	)
}

func NewResourceRegistryOf(resources ...ListResource) *ResourceRegistry {
	registry := &ResourceRegistry{resources: make(map[string]ListResource, len(resources))}
	for _, r := range resources {
		registry.resources[r.Name()] = r
	}
	return registry
}

func (r *ResourceRegistry) Get(name string) (ListResource, error) {
	resource, ok := r.resources[name]
	if !ok {
		return nil, errors.NewNotFoundError("Unknown list " + name)
	}
	return resource, nil
}
