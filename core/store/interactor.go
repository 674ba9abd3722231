// Package store defines the contract between the typed collection layer and
// the remote document store's client SDK, along with the error taxonomy every
// terminal operation reports through. Implementations own all network I/O;
// this package performs none of its own.
package store

import (
	"context"

	"github.com/asaidimu/go-docquery/core/document"
	"github.com/asaidimu/go-docquery/core/query"
)

// Snapshot is the raw form of one stored document as returned by a read: the
// store-assigned ID plus the document's field-value pairs.
type Snapshot struct {
	ID   string
	Data document.Document
}

// Interactor is the handle to the external document store. Every method issues
// a single call against the store; there are no retries and no caching.
// Implementations must be safe for concurrent use.
type Interactor interface {
	// RunQuery executes a query descriptor against the target collection and
	// returns the matching documents, ordered by the descriptor's sort key when
	// one is set and by store order otherwise.
	RunQuery(ctx context.Context, target query.Target, desc query.Descriptor) ([]Snapshot, error)

	// GetDocument fetches a single document by ID. It fails with a not-found
	// error when no document with that ID exists.
	GetDocument(ctx context.Context, target query.Target, id string) (Snapshot, error)

	// SetDocument inserts or replaces a document and returns the ID it was
	// written under. An empty id asks the store to generate one. When merge is
	// true, fields absent from doc keep their stored values; otherwise the
	// document is fully replaced.
	SetDocument(ctx context.Context, target query.Target, id string, doc document.Document, merge bool) (string, error)

	// UpdateDocument applies a partial update to an existing document. Whether
	// updating a missing document fails is the store's call to make.
	UpdateDocument(ctx context.Context, target query.Target, id string, updates document.Document) error

	// DeleteDocument removes a document by ID. Deleting a missing document is
	// not guaranteed to fail.
	DeleteDocument(ctx context.Context, target query.Target, id string) error
}
