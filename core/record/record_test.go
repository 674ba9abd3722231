package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	plainName  = F("Name")
	plainAge   = F("Age")
	mappedID   = F("ID")
	mappedCost = F("Cost")
	hiddenTmp  = F("Scratch")
)

type plainRecord struct {
	Name string
	Age  int
}

func (plainRecord) CollectionName() string { return "plain" }

type mappedRecord struct {
	ID   string
	Cost float64
}

func (mappedRecord) CollectionName() string { return "mapped" }

func (mappedRecord) FieldNames() FieldMap {
	return FieldMap{
		mappedID:   "id",
		mappedCost: "cost_cents",
		hiddenTmp:  "",
	}
}

func TestResolve_DefaultDerivation(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		expected string
	}{
		{name: "simple field", field: plainName, expected: "Name"},
		{name: "second field", field: plainAge, expected: "Age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(plainRecord{}, tt.field)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolve_OverrideTable(t *testing.T) {
	got, ok := Resolve(mappedRecord{}, mappedID)
	assert.True(t, ok)
	assert.Equal(t, "id", got)

	got, ok = Resolve(mappedRecord{}, mappedCost)
	assert.True(t, ok)
	assert.Equal(t, "cost_cents", got)
}

func TestResolve_UnmappedFallsThroughToDerivation(t *testing.T) {
	// plainAge is not in mappedRecord's override table, so the declared
	// property name is used.
	got, ok := Resolve(mappedRecord{}, plainAge)
	assert.True(t, ok)
	assert.Equal(t, "Age", got)
}

func TestResolve_ExplicitlyUnresolvable(t *testing.T) {
	_, ok := Resolve(mappedRecord{}, hiddenTmp)
	assert.False(t, ok)
}

func TestResolve_EmptyReference(t *testing.T) {
	_, ok := Resolve(plainRecord{}, Field{})
	assert.False(t, ok)
}

func TestField_Name(t *testing.T) {
	assert.Equal(t, "Price", F("Price").Name())
	assert.Equal(t, "", Field{}.Name())
}

func TestField_Comparable(t *testing.T) {
	// Two references declared with the same name are the same key.
	m := FieldMap{F("Price"): "price"}
	name, ok := m[F("Price")]
	assert.True(t, ok)
	assert.Equal(t, "price", name)
}
