// Package resource provides a generic CRUD and serialization contract shared
// by every persisted entity type. A Resource binds an entity type to its
// storage backend and to a declared public/private field split used when
// projecting instances into JSON-ready maps.
package resource

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no instance has the requested key.
var ErrNotFound = errors.New("not found")

// DuplicateError reports a storage uniqueness violation attributed to a
// single field. It is translated by callers into the same field-level error
// shape the validation layer produces.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// Store is the persistence boundary for one entity type. Save must be atomic
// for a single instance and must return *DuplicateError when a unique
// constraint is violated. Get must return ErrNotFound for a missing key.
type Store[T any] interface {
	All(ctx context.Context) ([]*T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Save(ctx context.Context, obj *T) error
	Delete(ctx context.Context, obj *T) error
}

// Schema declares how an entity type serializes. Field values are read live
// from the instance through Get; PublicFields are always projected,
// PrivateFields only when private output is requested.
type Schema[T any] struct {
	PublicFields  []string
	PrivateFields []string
	ID            func(obj *T) any
	Get           func(obj *T, field string) any
}

// Resource exposes one entity type through the generic contract.
// The private flag is fixed at construction: the public API surface and the
// admin surface each hold their own Resource over the same store.
type Resource[T any] struct {
	store   Store[T]
	schema  Schema[T]
	newFn   func() *T
	private bool
}

// New binds a store and schema into a Resource. newFn instantiates a
// transient (not yet persisted) entity for the create path.
func New[T any](store Store[T], schema Schema[T], newFn func() *T, private bool) *Resource[T] {
	return &Resource[T]{store: store, schema: schema, newFn: newFn, private: private}
}

// Create instantiates a transient entity. No validation or persistence
// happens here.
func (r *Resource[T]) Create() *T {
	r.mustBeBound()
	return r.newFn()
}

// All returns every persisted instance in the store's declared order.
func (r *Resource[T]) All(ctx context.Context) ([]*T, error) {
	r.mustBeBound()
	return r.store.All(ctx)
}

// Get fetches exactly one instance by primary key, or ErrNotFound.
func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	r.mustBeBound()
	obj, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}
	return obj, nil
}

// Save persists the instance through the bound store.
func (r *Resource[T]) Save(ctx context.Context, obj *T) error {
	r.mustBeBound()
	return r.store.Save(ctx, obj)
}

// Delete removes the instance from the bound store.
func (r *Resource[T]) Delete(ctx context.Context, obj *T) error {
	r.mustBeBound()
	return r.store.Delete(ctx, obj)
}

// Serialize projects the instance into a map: id plus the public fields,
// plus the private fields when this resource was constructed as private.
func (r *Resource[T]) Serialize(obj *T) map[string]any {
	data := map[string]any{"id": r.schema.ID(obj)}
	for _, field := range r.schema.PublicFields {
		data[field] = r.schema.Get(obj, field)
	}
	if r.private {
		for _, field := range r.schema.PrivateFields {
			data[field] = r.schema.Get(obj, field)
		}
	}
	return data
}

// SerializeMany serializes each instance, preserving input order.
func (r *Resource[T]) SerializeMany(objs []*T) []map[string]any {
	out := make([]map[string]any, 0, len(objs))
	for _, obj := range objs {
		out = append(out, r.Serialize(obj))
	}
	return out
}

// mustBeBound fails fast on a resource constructed without a store or
// entity constructor. That is a programming error, not a runtime condition.
func (r *Resource[T]) mustBeBound() {
	if r.store == nil || r.newFn == nil {
		panic("resource: no entity type bound")
	}
}
