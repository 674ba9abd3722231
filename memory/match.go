package memory

import (
	"reflect"
	"sort"
	"strconv"

	"github.com/asaidimu/go-docquery/core/document"
	"github.com/asaidimu/go-docquery/core/query"
	"github.com/asaidimu/go-docquery/core/store"
)

// matchesAll reports whether a document satisfies every filter predicate.
func matchesAll(doc document.Document, filters []query.Filter) (bool, error) {
	for _, f := range filters {
		ok, err := matches(doc, f)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matches(doc document.Document, f query.Filter) (bool, error) {
	val, ok := doc[f.Field]
	if !ok {
		return false, nil
	}

	switch f.Op {
	case query.OperatorEqual:
		return equal(val, f.Value), nil
	case query.OperatorLessThan, query.OperatorLessThanOrEqual,
		query.OperatorGreaterThan, query.OperatorGreaterThanOrEqual:
		c, ok := compare(val, f.Value)
		if !ok {
			return false, nil
		}
		switch f.Op {
		case query.OperatorLessThan:
			return c < 0, nil
		case query.OperatorLessThanOrEqual:
			return c <= 0, nil
		case query.OperatorGreaterThan:
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	case query.OperatorArrayContains:
		for _, elem := range elements(val) {
			if equal(elem, f.Value) {
				return true, nil
			}
		}
		return false, nil
	case query.OperatorArrayContainsAny:
		candidates := elements(f.Value)
		for _, elem := range elements(val) {
			for _, want := range candidates {
				if equal(elem, want) {
					return true, nil
				}
			}
		}
		return false, nil
	case query.OperatorIn:
		for _, want := range elements(f.Value) {
			if equal(val, want) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, store.Failf(nil, "unsupported operator %q", f.Op)
	}
}

// elements normalizes a value into a slice of candidate elements.
func elements(v any) []any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// equal compares two values, coercing numeric types so an int threshold
// matches a float document field.
func equal(a, b any) bool {
	fa, aok := toFloat64(a)
	fb, bok := toFloat64(b)
	if aok && bok {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two values. Only numbers and strings are ordered; everything
// else is incomparable.
func compare(a, b any) (int, bool) {
	fa, aok := toFloat64(a)
	fb, bok := toFloat64(b)
	if aok && bok {
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}
	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		switch {
		case sa < sb:
			return -1, true
		case sa > sb:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

// toFloat64 converts a value of the common numeric types to a float64,
// reporting whether the conversion was possible.
func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// sortByField stable-sorts snapshots by one stored field. Documents missing
// the field sort first ascending and last descending, and ID order breaks
// ties because the input arrives pre-sorted by ID.
func sortByField(snaps []store.Snapshot, order query.Order) {
	desc := order.Direction == query.SortDirectionDesc
	sort.SliceStable(snaps, func(i, j int) bool {
		vi, iok := snaps[i].Data[order.Field]
		vj, jok := snaps[j].Data[order.Field]
		if !iok || !jok {
			if desc {
				return iok && !jok
			}
			return !iok && jok
		}
		c, ok := compare(vi, vj)
		if !ok {
			return false
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}
