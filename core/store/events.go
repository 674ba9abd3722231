package store

import (
	"context"
	"fmt"
	"time"

	"github.com/asaidimu/go-events"

	"github.com/asaidimu/go-docquery/core/document"
	"github.com/asaidimu/go-docquery/core/query"
)

// EventType identifies a lifecycle event emitted around a store operation.
type EventType string

const (
	QueryStart    EventType = "document:query:start"
	QuerySuccess  EventType = "document:query:success"
	QueryFailed   EventType = "document:query:failed"
	GetStart      EventType = "document:get:start"
	GetSuccess    EventType = "document:get:success"
	GetFailed     EventType = "document:get:failed"
	SetStart      EventType = "document:set:start"
	SetSuccess    EventType = "document:set:success"
	SetFailed     EventType = "document:set:failed"
	UpdateStart   EventType = "document:update:start"
	UpdateSuccess EventType = "document:update:success"
	UpdateFailed  EventType = "document:update:failed"
	DeleteStart   EventType = "document:delete:start"
	DeleteSuccess EventType = "document:delete:success"
	DeleteFailed  EventType = "document:delete:failed"
)

// Event describes one store operation as observed by an EventEmittingInteractor.
type Event struct {
	Type       EventType `json:"type"`
	Timestamp  int64     `json:"timestamp"` // Unix milliseconds.
	Operation  string    `json:"operation"`
	Collection string    `json:"collection"`
	DocumentID string    `json:"documentId,omitempty"`
	Error      *string   `json:"error,omitempty"`
	Duration   *int64    `json:"duration,omitempty"` // Milliseconds, set on success/failed.
}

// EventCallback is invoked for every event matching a subscription.
type EventCallback func(ctx context.Context, event Event) error

// EventEmittingInteractor wraps an Interactor and emits start, success, and
// failed events around every operation. It changes no semantics; results and
// errors pass through untouched.
type EventEmittingInteractor struct {
	inner Interactor
	bus   *events.TypedEventBus[Event]
}

// NewEventEmittingInteractor wraps inner with lifecycle event emission.
func NewEventEmittingInteractor(inner Interactor) (*EventEmittingInteractor, error) {
	bus, err := events.NewTypedEventBus[Event](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}
	return &EventEmittingInteractor{inner: inner, bus: bus}, nil
}

// Subscribe registers a callback for one event type and returns its
// unsubscribe function.
func (e *EventEmittingInteractor) Subscribe(t EventType, cb EventCallback) func() {
	return e.bus.Subscribe(string(t), cb)
}

func (e *EventEmittingInteractor) emit(t EventType, operation string, target query.Target, id string, opErr error, start time.Time, final bool) {
	event := Event{
		Type:       t,
		Timestamp:  time.Now().UnixMilli(),
		Operation:  operation,
		Collection: target.Path(),
		DocumentID: id,
	}
	if final {
		ms := time.Since(start).Milliseconds()
		event.Duration = &ms
	}
	if opErr != nil {
		msg := opErr.Error()
		event.Error = &msg
	}
	e.bus.Emit(string(t), event)
}

func (e *EventEmittingInteractor) around(operation string, startT, successT, failedT EventType, target query.Target, id string, fn func() error) error {
	start := time.Now()
	e.emit(startT, operation, target, id, nil, start, false)
	if err := fn(); err != nil {
		e.emit(failedT, operation, target, id, err, start, true)
		return err
	}
	e.emit(successT, operation, target, id, nil, start, true)
	return nil
}

// RunQuery implements Interactor.
func (e *EventEmittingInteractor) RunQuery(ctx context.Context, target query.Target, desc query.Descriptor) ([]Snapshot, error) {
	var snaps []Snapshot
	err := e.around("query", QueryStart, QuerySuccess, QueryFailed, target, "", func() error {
		var err error
		snaps, err = e.inner.RunQuery(ctx, target, desc)
		return err
	})
	return snaps, err
}

// GetDocument implements Interactor.
func (e *EventEmittingInteractor) GetDocument(ctx context.Context, target query.Target, id string) (Snapshot, error) {
	var snap Snapshot
	err := e.around("get", GetStart, GetSuccess, GetFailed, target, id, func() error {
		var err error
		snap, err = e.inner.GetDocument(ctx, target, id)
		return err
	})
	return snap, err
}

// SetDocument implements Interactor.
func (e *EventEmittingInteractor) SetDocument(ctx context.Context, target query.Target, id string, doc document.Document, merge bool) (string, error) {
	var written string
	err := e.around("set", SetStart, SetSuccess, SetFailed, target, id, func() error {
		var err error
		written, err = e.inner.SetDocument(ctx, target, id, doc, merge)
		return err
	})
	return written, err
}

// UpdateDocument implements Interactor.
func (e *EventEmittingInteractor) UpdateDocument(ctx context.Context, target query.Target, id string, updates document.Document) error {
	return e.around("update", UpdateStart, UpdateSuccess, UpdateFailed, target, id, func() error {
		return e.inner.UpdateDocument(ctx, target, id, updates)
	})
}

// DeleteDocument implements Interactor.
func (e *EventEmittingInteractor) DeleteDocument(ctx context.Context, target query.Target, id string) error {
	return e.around("delete", DeleteStart, DeleteSuccess, DeleteFailed, target, id, func() error {
		return e.inner.DeleteDocument(ctx, target, id)
	})
}

var _ Interactor = (*EventEmittingInteractor)(nil)
