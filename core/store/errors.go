package store

import (
	"errors"
	"fmt"
)

// Kind classifies a failed store operation.
type Kind int

// The two failure kinds. Skip zero so an uninitialized Kind is never mistaken
// for a real classification.
const (
	// KindNotFound means an identified-document lookup found nothing.
	KindNotFound Kind = iota + 1
	// KindStore covers every other failure: network, permissions,
	// serialization, malformed queries.
	KindStore
)

var kindString = map[Kind]string{
	KindNotFound: "not found",
	KindStore:    "store error",
}

// Error is the failure reported by a store operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", kindString[e.Kind], e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFoundf returns a KindNotFound error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Failf wraps an underlying failure as a KindStore error with a formatted
// message. An error that already carries a kind is returned unchanged so the
// original classification survives layering.
func Failf(err error, format string, args ...any) error {
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: KindStore, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind carried by err, or KindStore for errors that carry
// none.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStore
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}
