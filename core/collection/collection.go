// Package collection provides the typed query-construction layer over a
// document store. A Collection binds one record type to one collection target
// and an injected store interactor; its Query method starts a fluent filter
// chain, and its document operations cover ID-based reads and writes. All
// network I/O, serialization, and consistency guarantees belong to the store
// interactor; this package only accumulates descriptors and delegates.
package collection

import (
	"context"

	"go.uber.org/zap"

	"github.com/asaidimu/go-docquery/core/document"
	"github.com/asaidimu/go-docquery/core/query"
	"github.com/asaidimu/go-docquery/core/record"
	"github.com/asaidimu/go-docquery/core/store"
)

// Collection is the typed handle to one document collection. It holds no
// connection resources of its own; the interactor it is constructed with owns
// those. A Collection is safe for concurrent use to the extent the interactor
// is.
type Collection[T record.Record] struct {
	interactor store.Interactor
	target     query.Target
	logger     *zap.Logger
}

// Option configures a Collection.
type Option func(*options)

type options struct {
	parent string
	logger *zap.Logger
}

// WithParent scopes the collection under a parent document, addressing a
// subcollection. The path is the slash-separated parent document path, for
// example "users/u1".
func WithParent(path string) Option {
	return func(o *options) { o.parent = path }
}

// WithLogger sets the logger used for fail-soft warnings. Defaults to a no-op
// logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a Collection for T's declared collection name, backed by the
// given interactor.
func New[T record.Record](interactor store.Interactor, opts ...Option) *Collection[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	var rec T
	return &Collection[T]{
		interactor: interactor,
		target:     query.Target{Parent: o.parent, Collection: rec.CollectionName()},
		logger:     o.logger,
	}
}

// Target returns the collection target the handle is bound to.
func (c *Collection[T]) Target() query.Target {
	return c.target
}

// Query starts a new, empty query chain over the collection. Create a fresh
// chain per logical query; chains are consumed by a single terminal operation.
func (c *Collection[T]) Query() Query[T] {
	return Query[T]{coll: c}
}

// resolve maps a field reference to its stored name using T's field mapping.
func (c *Collection[T]) resolve(field record.Field) (string, bool) {
	var rec T
	return record.Resolve(rec, field)
}

// decode turns a raw snapshot into a record, handing the store-assigned ID to
// records that want it.
func (c *Collection[T]) decode(snap store.Snapshot) (T, error) {
	var rec T
	if err := document.Unmarshal(snap.Data, &rec); err != nil {
		var zero T
		return zero, err
	}
	if setter, ok := any(&rec).(record.IDSetter); ok {
		setter.SetDocumentID(snap.ID)
	}
	return rec, nil
}

// Get fetches a single document by ID, bypassing any query state. It fails
// with a not-found error when the document does not exist and a store error on
// any other failure.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	snap, err := c.interactor.GetDocument(ctx, c.target, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, err
		}
		return nil, store.Failf(err, "failed to fetch document %q from %q", id, c.target.Path())
	}
	rec, err := c.decode(snap)
	if err != nil {
		return nil, store.Failf(err, "failed to decode document %q from %q", id, c.target.Path())
	}
	return &rec, nil
}

// SetOption configures a Set or SetDocument call.
type SetOption func(*setOptions)

type setOptions struct {
	id    string
	merge bool
}

// WithID writes the document under the given ID instead of a store-generated
// one.
func WithID(id string) SetOption {
	return func(o *setOptions) { o.id = id }
}

// WithMerge preserves stored fields absent from the new payload instead of
// fully replacing the document.
func WithMerge() SetOption {
	return func(o *setOptions) { o.merge = true }
}

// Set inserts or replaces a document from a typed record and returns the ID it
// was written under.
func (c *Collection[T]) Set(ctx context.Context, rec T, opts ...SetOption) (string, error) {
	doc, err := document.Marshal(rec)
	if err != nil {
		return "", store.Failf(err, "failed to encode record for %q", c.target.Path())
	}
	return c.SetDocument(ctx, doc, opts...)
}

// SetDocument inserts or replaces a document from an untyped field-value
// payload and returns the ID it was written under.
func (c *Collection[T]) SetDocument(ctx context.Context, doc document.Document, opts ...SetOption) (string, error) {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}
	id, err := c.interactor.SetDocument(ctx, c.target, o.id, doc, o.merge)
	if err != nil {
		return "", store.Failf(err, "failed to write document to %q", c.target.Path())
	}
	return id, nil
}

// Update is a single typed field change within a partial update.
type Update struct {
	Field record.Field
	Value any
}

// Update applies a partial update to the identified document. Field references
// are resolved before dispatch; a reference with no stored name fails the call
// rather than silently shrinking the update. The document is assumed to exist;
// updating a missing one is the store's error to raise.
func (c *Collection[T]) Update(ctx context.Context, id string, updates []Update) error {
	fields := make(document.Document, len(updates))
	for _, u := range updates {
		name, ok := c.resolve(u.Field)
		if !ok {
			return store.Failf(nil, "no stored field name for reference %q in %q", u.Field.Name(), c.target.Path())
		}
		fields[name] = u.Value
	}
	if err := c.interactor.UpdateDocument(ctx, c.target, id, fields); err != nil {
		return store.Failf(err, "failed to update document %q in %q", id, c.target.Path())
	}
	return nil
}

// Delete removes the identified document. Deleting a missing document is not
// guaranteed to fail; that is the store's semantics.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.interactor.DeleteDocument(ctx, c.target, id); err != nil {
		return store.Failf(err, "failed to delete document %q from %q", id, c.target.Path())
	}
	return nil
}
