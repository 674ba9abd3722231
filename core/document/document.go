// Package document bridges typed records and the remote store's native
// document representation. The conversion is a plain serialization round trip;
// the package knows nothing about collections or queries.
package document

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is the store's native representation of a single document: a set of
// field-value pairs.
type Document = map[string]any

// Marshaler is an optional capability for types that produce their own
// document representation instead of the default serialization round trip.
type Marshaler interface {
	MarshalDocument() (Document, error)
}

// Unmarshaler is an optional capability for types that populate themselves
// from a raw document instead of the default round trip. Implement it on the
// pointer receiver.
type Unmarshaler interface {
	UnmarshalDocument(doc Document) error
}

// Marshal converts a typed value into its document representation.
func Marshal(v any) (Document, error) {
	if m, ok := v.(Marshaler); ok {
		return m.MarshalDocument()
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode %T as a document: %w", v, err)
	}
	return doc, nil
}

// Unmarshal populates out from a raw document.
func Unmarshal(doc Document, out any) error {
	if u, ok := out.(Unmarshaler); ok {
		return u.UnmarshalDocument(doc)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to re-encode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode document into %T: %w", out, err)
	}
	return nil
}
