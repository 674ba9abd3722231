// Package record defines the capability contract that application types must
// satisfy to be stored in a document collection, along with the typed field
// references used in place of raw strings when building queries.
package record

// Field is a typed handle identifying one property of a record type. It carries
// no runtime value; it is resolved to the stored field name only when a query is
// built. Fields are comparable and may be used as map keys.
type Field struct {
	name string
}

// F declares a field reference for the named property. The name is used as the
// stored field name unless the record type remaps it via FieldNames.
func F(name string) Field {
	return Field{name: name}
}

// Name returns the declared property name of the reference.
func (f Field) Name() string {
	return f.name
}

// FieldMap maps field references to the field names used by the remote store.
type FieldMap map[Field]string

// Record is implemented by any application type mapped to a document collection.
type Record interface {
	// CollectionName returns the name of the collection the type is stored in.
	CollectionName() string
}

// FieldMapper is an optional capability for record types whose stored field
// names diverge from their declared property names. Entries present in the map
// take precedence over the default derivation; references absent from the map
// fall through to it. An entry mapped to the empty string marks the reference
// as having no stored name at all.
type FieldMapper interface {
	FieldNames() FieldMap
}

// IDSetter is an optional capability for record types that want to capture the
// store-assigned document ID when they are read back. Implement it on the
// pointer receiver.
type IDSetter interface {
	SetDocumentID(id string)
}

// Resolve maps a field reference on the given record to the stored field name.
// The record's FieldNames override table is consulted first; references it does
// not cover resolve to their declared property name. The second return value is
// false when no name can be derived.
func Resolve(rec Record, field Field) (string, bool) {
	if mapper, ok := rec.(FieldMapper); ok {
		if name, ok := mapper.FieldNames()[field]; ok {
			return name, name != ""
		}
	}
	if field.name == "" {
		return "", false
	}
	return field.name, true
}
