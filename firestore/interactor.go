// Package firestore provides a concrete implementation of the store.Interactor
// contract backed by Google Cloud Firestore. It translates collection targets
// and query descriptors into calls on the official client and maps the
// client's failures into the store error taxonomy. Connection management,
// retries, and consistency are the client's concern.
package firestore

import (
	"context"
	"fmt"

	fs "cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/asaidimu/go-docquery/core/document"
	"github.com/asaidimu/go-docquery/core/query"
	"github.com/asaidimu/go-docquery/core/store"
)

// Interactor implements store.Interactor over a *firestore.Client. The client
// is owned by the caller unless the interactor was built with Open, in which
// case Close releases it.
type Interactor struct {
	client *fs.Client
	logger *zap.Logger
}

var _ store.Interactor = (*Interactor)(nil)

// NewInteractor wraps an existing client.
func NewInteractor(client *fs.Client, logger *zap.Logger) *Interactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{client: client, logger: logger}
}

// Open connects a new client from the given configuration.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Interactor, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := fs.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to firestore project %q: %w", cfg.ProjectID, err)
	}
	return NewInteractor(client, logger), nil
}

// Close releases the underlying client.
func (f *Interactor) Close() error {
	return f.client.Close()
}

// collectionRef resolves a target to a collection reference, descending
// through the parent document for subcollections.
func (f *Interactor) collectionRef(target query.Target) *fs.CollectionRef {
	if target.Parent == "" {
		return f.client.Collection(target.Collection)
	}
	return f.client.Doc(target.Parent).Collection(target.Collection)
}

func direction(d query.SortDirection) fs.Direction {
	if d == query.SortDirectionDesc {
		return fs.Desc
	}
	return fs.Asc
}

// RunQuery implements store.Interactor.
func (f *Interactor) RunQuery(ctx context.Context, target query.Target, desc query.Descriptor) ([]store.Snapshot, error) {
	q := f.collectionRef(target).Query
	for _, filter := range desc.Filters {
		q = q.Where(filter.Field, string(filter.Op), filter.Value)
	}
	if desc.Order != nil {
		q = q.OrderBy(desc.Order.Field, direction(desc.Order.Direction))
	}
	if desc.Limit > 0 {
		q = q.Limit(desc.Limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var snaps []store.Snapshot
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, store.Failf(err, "query against %q failed", target.Path())
		}
		snaps = append(snaps, store.Snapshot{ID: snap.Ref.ID, Data: snap.Data()})
	}
	f.logger.Debug("ran query",
		zap.String("collection", target.Path()),
		zap.Int("filters", len(desc.Filters)),
		zap.Int("matched", len(snaps)))
	return snaps, nil
}

// GetDocument implements store.Interactor.
func (f *Interactor) GetDocument(ctx context.Context, target query.Target, id string) (store.Snapshot, error) {
	snap, err := f.collectionRef(target).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return store.Snapshot{}, store.NotFoundf("document %q does not exist in %q", id, target.Path())
	}
	if err != nil {
		return store.Snapshot{}, store.Failf(err, "failed to fetch document %q from %q", id, target.Path())
	}
	return store.Snapshot{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

// SetDocument implements store.Interactor.
func (f *Interactor) SetDocument(ctx context.Context, target query.Target, id string, doc document.Document, merge bool) (string, error) {
	coll := f.collectionRef(target)
	ref := coll.NewDoc()
	if id != "" {
		ref = coll.Doc(id)
	}

	var err error
	if merge {
		_, err = ref.Set(ctx, doc, fs.MergeAll)
	} else {
		_, err = ref.Set(ctx, doc)
	}
	if err != nil {
		return "", store.Failf(err, "failed to write document %q to %q", ref.ID, target.Path())
	}
	return ref.ID, nil
}

// UpdateDocument implements store.Interactor. Firestore fails the update when
// the document does not exist; that failure is reported as a store error.
func (f *Interactor) UpdateDocument(ctx context.Context, target query.Target, id string, updates document.Document) error {
	mods := make([]fs.Update, 0, len(updates))
	for field, value := range updates {
		mods = append(mods, fs.Update{Path: field, Value: value})
	}
	if _, err := f.collectionRef(target).Doc(id).Update(ctx, mods); err != nil {
		return store.Failf(err, "failed to update document %q in %q", id, target.Path())
	}
	return nil
}

// DeleteDocument implements store.Interactor. Firestore deletes are idempotent.
func (f *Interactor) DeleteDocument(ctx context.Context, target query.Target, id string) error {
	if _, err := f.collectionRef(target).Doc(id).Delete(ctx); err != nil {
		return store.Failf(err, "failed to delete document %q from %q", id, target.Path())
	}
	return nil
}
