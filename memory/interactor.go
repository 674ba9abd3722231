// Package memory provides an in-memory implementation of the store.Interactor
// contract. It is suitable for local development and tests; documents live in
// process memory and survive nothing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/asaidimu/go-docquery/core/document"
	"github.com/asaidimu/go-docquery/core/query"
	"github.com/asaidimu/go-docquery/core/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Interactor is a map-backed document store. It is safe for concurrent use.
type Interactor struct {
	mu          sync.RWMutex
	collections map[string]map[string]document.Document
	logger      *zap.Logger
}

var _ store.Interactor = (*Interactor)(nil)

// New creates an empty in-memory interactor.
func New(logger *zap.Logger) *Interactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{
		collections: make(map[string]map[string]document.Document),
		logger:      logger,
	}
}

// bucket returns the document map for a target, creating it when absent.
// Callers must hold the write lock; readers use the map directly.
func (m *Interactor) bucket(target query.Target) map[string]document.Document {
	path := target.Path()
	b, ok := m.collections[path]
	if !ok {
		b = make(map[string]document.Document)
		m.collections[path] = b
	}
	return b
}

// copyDoc deep-copies a document through a serialization round trip, so stored
// documents and returned snapshots never share mutable state.
func copyDoc(doc document.Document) (document.Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	var out document.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	return out, nil
}

// RunQuery implements store.Interactor. Store order is ID order; an explicit
// sort key overrides it.
func (m *Interactor) RunQuery(ctx context.Context, target query.Target, desc query.Descriptor) ([]store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var snaps []store.Snapshot
	for id, doc := range m.collections[target.Path()] {
		matched, err := matchesAll(doc, desc.Filters)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}
		cp, err := copyDoc(doc)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, store.Snapshot{ID: id, Data: cp})
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })
	if desc.Order != nil {
		sortByField(snaps, *desc.Order)
	}
	if desc.Limit > 0 && len(snaps) > desc.Limit {
		snaps = snaps[:desc.Limit]
	}

	m.logger.Debug("ran query",
		zap.String("collection", target.Path()),
		zap.Int("filters", len(desc.Filters)),
		zap.Int("matched", len(snaps)))
	return snaps, nil
}

// GetDocument implements store.Interactor.
func (m *Interactor) GetDocument(ctx context.Context, target query.Target, id string) (store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return store.Snapshot{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[target.Path()][id]
	if !ok {
		return store.Snapshot{}, store.NotFoundf("document %q does not exist in %q", id, target.Path())
	}
	cp, err := copyDoc(doc)
	if err != nil {
		return store.Snapshot{}, err
	}
	return store.Snapshot{ID: id, Data: cp}, nil
}

// SetDocument implements store.Interactor. An empty id gets a generated one.
func (m *Interactor) SetDocument(ctx context.Context, target query.Target, id string, doc document.Document, merge bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cp, err := copyDoc(doc)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bucket := m.bucket(target)
	if id == "" {
		id = uuid.NewString()
	}
	if existing, ok := bucket[id]; ok && merge {
		merged, err := copyDoc(existing)
		if err != nil {
			return "", err
		}
		for k, v := range cp {
			merged[k] = v
		}
		bucket[id] = merged
	} else {
		bucket[id] = cp
	}
	return id, nil
}

// UpdateDocument implements store.Interactor. Updating a missing document
// fails, matching the remote store this stands in for.
func (m *Interactor) UpdateDocument(ctx context.Context, target query.Target, id string, updates document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp, err := copyDoc(updates)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bucket := m.bucket(target)
	doc, ok := bucket[id]
	if !ok {
		return store.Failf(nil, "cannot update missing document %q in %q", id, target.Path())
	}
	for k, v := range cp {
		doc[k] = v
	}
	return nil
}

// DeleteDocument implements store.Interactor. Deleting a missing document is a
// no-op.
func (m *Interactor) DeleteDocument(ctx context.Context, target query.Target, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[target.Path()], id)
	return nil
}
