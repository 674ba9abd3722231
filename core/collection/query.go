package collection

import (
	"context"

	"go.uber.org/zap"

	"github.com/asaidimu/go-docquery/core/query"
	"github.com/asaidimu/go-docquery/core/record"
	"github.com/asaidimu/go-docquery/core/store"
)

// Query is a fluent filter chain over a collection. Every chaining call
// returns a new value holding an extended copy of the descriptor, so a chain
// step never mutates the queries derived before it and partial chains can be
// reused safely.
//
// A filter or order call whose field reference has no stored name is dropped
// with a logged warning rather than failing the chain. The resulting query
// runs without that predicate, so it can return a broader result set than
// intended; callers that need a hard failure should validate their field maps
// up front.
type Query[T record.Record] struct {
	coll *Collection[T]
	desc query.Descriptor
}

// Descriptor returns a copy of the accumulated query state.
func (q Query[T]) Descriptor() query.Descriptor {
	return q.desc.Clone()
}

func (q Query[T]) where(field record.Field, op query.Operator, value any) Query[T] {
	name, ok := q.coll.resolve(field)
	if !ok {
		q.coll.logger.Warn("dropping filter with unresolvable field reference",
			zap.String("collection", q.coll.target.Path()),
			zap.String("field", field.Name()),
			zap.String("operator", string(op)))
		return q
	}
	next := q
	next.desc = q.desc.Clone()
	next.desc.Filters = append(next.desc.Filters, query.Filter{Field: name, Op: op, Value: value})
	return next
}

// WhereEqualTo keeps documents whose field equals value.
func (q Query[T]) WhereEqualTo(field record.Field, value any) Query[T] {
	return q.where(field, query.OperatorEqual, value)
}

// WhereLessThan keeps documents whose field is strictly below the threshold.
func (q Query[T]) WhereLessThan(field record.Field, threshold any) Query[T] {
	return q.where(field, query.OperatorLessThan, threshold)
}

// WhereLessThanOrEqualTo keeps documents whose field is at or below the
// threshold.
func (q Query[T]) WhereLessThanOrEqualTo(field record.Field, threshold any) Query[T] {
	return q.where(field, query.OperatorLessThanOrEqual, threshold)
}

// WhereGreaterThan keeps documents whose field is strictly above the
// threshold.
func (q Query[T]) WhereGreaterThan(field record.Field, threshold any) Query[T] {
	return q.where(field, query.OperatorGreaterThan, threshold)
}

// WhereGreaterThanOrEqualTo keeps documents whose field is at or above the
// threshold.
func (q Query[T]) WhereGreaterThanOrEqualTo(field record.Field, threshold any) Query[T] {
	return q.where(field, query.OperatorGreaterThanOrEqual, threshold)
}

// WhereArrayContains keeps documents whose array field contains the value.
func (q Query[T]) WhereArrayContains(field record.Field, value any) Query[T] {
	return q.where(field, query.OperatorArrayContains, value)
}

// WhereArrayContainsAny keeps documents whose array field contains at least
// one of the values.
func (q Query[T]) WhereArrayContainsAny(field record.Field, values []any) Query[T] {
	return q.where(field, query.OperatorArrayContainsAny, values)
}

// WhereIn keeps documents whose field equals one of the values.
func (q Query[T]) WhereIn(field record.Field, values []any) Query[T] {
	return q.where(field, query.OperatorIn, values)
}

// OrderBy sorts the result set by the given field. The fail-soft policy for
// unresolvable references applies here as well.
func (q Query[T]) OrderBy(field record.Field, direction query.SortDirection) Query[T] {
	name, ok := q.coll.resolve(field)
	if !ok {
		q.coll.logger.Warn("dropping order-by with unresolvable field reference",
			zap.String("collection", q.coll.target.Path()),
			zap.String("field", field.Name()))
		return q
	}
	next := q
	next.desc = q.desc.Clone()
	next.desc.Order = &query.Order{Field: name, Direction: direction}
	return next
}

// OrderByAsc sorts the result set ascending by the given field.
func (q Query[T]) OrderByAsc(field record.Field) Query[T] {
	return q.OrderBy(field, query.SortDirectionAsc)
}

// OrderByDesc sorts the result set descending by the given field.
func (q Query[T]) OrderByDesc(field record.Field) Query[T] {
	return q.OrderBy(field, query.SortDirectionDesc)
}

// Limit caps the result set at n documents.
func (q Query[T]) Limit(n int) Query[T] {
	next := q
	next.desc = q.desc.Clone()
	next.desc.Limit = n
	return next
}

// All executes the accumulated descriptor and returns every matching record,
// in the store's order or the explicit order when one was set. Any failure,
// including a record that cannot be decoded, is reported as a store error.
func (q Query[T]) All(ctx context.Context) ([]T, error) {
	snaps, err := q.coll.interactor.RunQuery(ctx, q.coll.target, q.desc)
	if err != nil {
		return nil, store.Failf(err, "query against %q failed", q.coll.target.Path())
	}
	records := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		rec, err := q.coll.decode(snap)
		if err != nil {
			return nil, store.Failf(err, "failed to decode document %q from %q", snap.ID, q.coll.target.Path())
		}
		records = append(records, rec)
	}
	return records, nil
}

// First executes the descriptor capped at one document and returns the first
// match, or nil without an error when nothing matches.
func (q Query[T]) First(ctx context.Context) (*T, error) {
	records, err := q.Limit(1).All(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// Count executes the descriptor and returns the number of matching documents.
func (q Query[T]) Count(ctx context.Context) (int, error) {
	records, err := q.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
