// Package query defines the value types that describe a query against a
// document collection: the collection target, the accumulated filter
// predicates, the optional sort key, and the optional row limit. The types
// carry no behavior of their own; a store interactor translates them into
// calls against the remote store's SDK.
package query

// Operator defines the set of comparison operators a filter predicate can use.
// The values mirror the remote store's operator vocabulary and are passed to it
// verbatim.
type Operator string

// Supported filter operators.
const (
	OperatorEqual              Operator = "=="
	OperatorLessThan           Operator = "<"
	OperatorLessThanOrEqual    Operator = "<="
	OperatorGreaterThan        Operator = ">"
	OperatorGreaterThanOrEqual Operator = ">="
	OperatorArrayContains      Operator = "array-contains"
	OperatorArrayContainsAny   Operator = "array-contains-any"
	OperatorIn                 Operator = "in"
)

// Filter is a single predicate on a stored field.
type Filter struct {
	Field string   // The stored field name the predicate applies to.
	Op    Operator // The comparison operator.
	Value any      // The value, threshold, or list to compare against.
}

// SortDirection specifies the direction of the result ordering.
type SortDirection string

// Supported sort directions.
const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// Order defines the result ordering for a single stored field.
type Order struct {
	Field     string
	Direction SortDirection
}

// Target addresses one collection, either top-level or scoped under a parent
// document ("subcollection").
type Target struct {
	// Parent is the slash-separated path of the parent document, for example
	// "users/u1". Empty for a top-level collection.
	Parent string
	// Collection is the collection name.
	Collection string
}

// Path returns the full slash-separated collection path.
func (t Target) Path() string {
	if t.Parent == "" {
		return t.Collection
	}
	return t.Parent + "/" + t.Collection
}

// Descriptor is the accumulated state of a query prior to execution: an ordered
// sequence of filter predicates, an optional sort key, and an optional limit.
// Descriptors are built append-only; a predicate, once added, is never removed.
type Descriptor struct {
	Filters []Filter
	Order   *Order
	Limit   int // 0 means no limit.
}

// Clone returns a copy of the descriptor that shares no mutable state with the
// original, so a chain step can extend it without affecting earlier steps.
func (d Descriptor) Clone() Descriptor {
	out := d
	if len(d.Filters) > 0 {
		out.Filters = make([]Filter, len(d.Filters))
		copy(out.Filters, d.Filters)
	}
	if d.Order != nil {
		order := *d.Order
		out.Order = &order
	}
	return out
}
