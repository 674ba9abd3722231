package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Tags  []string `json:"tags,omitempty"`
}

func TestMarshal_RoundTrip(t *testing.T) {
	doc, err := Marshal(item{Name: "widget", Price: 12.5, Tags: []string{"a", "b"}})
	require.NoError(t, err)

	assert.Equal(t, "widget", doc["name"])
	assert.Equal(t, 12.5, doc["price"])

	var out item
	require.NoError(t, Unmarshal(doc, &out))
	assert.Equal(t, "widget", out.Name)
	assert.Equal(t, 12.5, out.Price)
	assert.Equal(t, []string{"a", "b"}, out.Tags)
}

func TestMarshal_UnencodableValue(t *testing.T) {
	_, err := Marshal(func() {})
	assert.Error(t, err)
}

func TestUnmarshal_TypeMismatch(t *testing.T) {
	var out item
	err := Unmarshal(Document{"price": "not a number"}, &out)
	assert.Error(t, err)
}

type customItem struct {
	Name string
}

func (c customItem) MarshalDocument() (Document, error) {
	return Document{"n": c.Name}, nil
}

func (c *customItem) UnmarshalDocument(doc Document) error {
	name, ok := doc["n"].(string)
	if !ok {
		return errors.New("missing n")
	}
	c.Name = name
	return nil
}

func TestCustomCodecCapabilities(t *testing.T) {
	doc, err := Marshal(customItem{Name: "widget"})
	require.NoError(t, err)
	assert.Equal(t, Document{"n": "widget"}, doc)

	var out customItem
	require.NoError(t, Unmarshal(doc, &out))
	assert.Equal(t, "widget", out.Name)

	assert.Error(t, Unmarshal(Document{}, &out))
}
