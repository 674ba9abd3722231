package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/go-docquery/core/document"
	"github.com/asaidimu/go-docquery/core/query"
	"github.com/asaidimu/go-docquery/core/record"
	"github.com/asaidimu/go-docquery/core/store"
)

var (
	itemID    = record.F("ID")
	itemName  = record.F("Name")
	itemPrice = record.F("Price")
	itemTags  = record.F("Tags")
	itemBogus = record.Field{}
)

type item struct {
	ID    string   `json:"-"`
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Tags  []string `json:"tags,omitempty"`
}

func (item) CollectionName() string { return "items" }

func (item) FieldNames() record.FieldMap {
	return record.FieldMap{
		itemID:    "id",
		itemName:  "name",
		itemPrice: "price",
		itemTags:  "tags",
	}
}

func (i *item) SetDocumentID(id string) { i.ID = id }

// fakeInteractor records every call and replays canned results.
type fakeInteractor struct {
	lastTarget  query.Target
	lastDesc    query.Descriptor
	lastID      string
	lastDoc     document.Document
	lastMerge   bool
	lastUpdates document.Document

	snaps []store.Snapshot
	getFn func(id string) (store.Snapshot, error)
	err   error
}

func (f *fakeInteractor) RunQuery(ctx context.Context, target query.Target, desc query.Descriptor) ([]store.Snapshot, error) {
	f.lastTarget = target
	f.lastDesc = desc
	return f.snaps, f.err
}

func (f *fakeInteractor) GetDocument(ctx context.Context, target query.Target, id string) (store.Snapshot, error) {
	f.lastTarget = target
	f.lastID = id
	if f.getFn != nil {
		return f.getFn(id)
	}
	return store.Snapshot{}, f.err
}

func (f *fakeInteractor) SetDocument(ctx context.Context, target query.Target, id string, doc document.Document, merge bool) (string, error) {
	f.lastTarget = target
	f.lastID = id
	f.lastDoc = doc
	f.lastMerge = merge
	if f.err != nil {
		return "", f.err
	}
	if id == "" {
		return "generated", nil
	}
	return id, nil
}

func (f *fakeInteractor) UpdateDocument(ctx context.Context, target query.Target, id string, updates document.Document) error {
	f.lastTarget = target
	f.lastID = id
	f.lastUpdates = updates
	return f.err
}

func (f *fakeInteractor) DeleteDocument(ctx context.Context, target query.Target, id string) error {
	f.lastTarget = target
	f.lastID = id
	return f.err
}

func TestNew_BindsCollectionTarget(t *testing.T) {
	coll := New[item](&fakeInteractor{})
	assert.Equal(t, query.Target{Collection: "items"}, coll.Target())
}

func TestNew_WithParentAddressesSubcollection(t *testing.T) {
	coll := New[item](&fakeInteractor{}, WithParent("users/u1"))
	assert.Equal(t, "users/u1/items", coll.Target().Path())
}

func TestQuery_FiltersAppliedInCallOrder(t *testing.T) {
	fake := &fakeInteractor{}
	coll := New[item](fake)

	_, err := coll.Query().
		WhereGreaterThanOrEqualTo(itemPrice, 10).
		WhereLessThan(itemPrice, 100).
		WhereEqualTo(itemName, "widget").
		WhereIn(itemTags, []any{"a", "b"}).
		All(context.Background())
	require.NoError(t, err)

	expected := []query.Filter{
		{Field: "price", Op: query.OperatorGreaterThanOrEqual, Value: 10},
		{Field: "price", Op: query.OperatorLessThan, Value: 100},
		{Field: "name", Op: query.OperatorEqual, Value: "widget"},
		{Field: "tags", Op: query.OperatorIn, Value: []any{"a", "b"}},
	}
	assert.Equal(t, expected, fake.lastDesc.Filters)
}

func TestQuery_OrderAndLimit(t *testing.T) {
	fake := &fakeInteractor{}
	coll := New[item](fake)

	_, err := coll.Query().OrderByDesc(itemPrice).Limit(5).All(context.Background())
	require.NoError(t, err)

	require.NotNil(t, fake.lastDesc.Order)
	assert.Equal(t, query.Order{Field: "price", Direction: query.SortDirectionDesc}, *fake.lastDesc.Order)
	assert.Equal(t, 5, fake.lastDesc.Limit)
}

func TestQuery_ChainingIsCopyOnWrite(t *testing.T) {
	coll := New[item](&fakeInteractor{})

	base := coll.Query().WhereGreaterThan(itemPrice, 10)
	narrowed := base.WhereLessThan(itemPrice, 20).Limit(1)

	assert.Len(t, base.Descriptor().Filters, 1)
	assert.Zero(t, base.Descriptor().Limit)
	assert.Len(t, narrowed.Descriptor().Filters, 2)
	assert.Equal(t, 1, narrowed.Descriptor().Limit)
}

func TestQuery_UnresolvableFilterIsDropped(t *testing.T) {
	fake := &fakeInteractor{}
	coll := New[item](fake)

	withBogus := coll.Query().
		WhereGreaterThanOrEqualTo(itemPrice, 10).
		WhereEqualTo(itemBogus, "x").
		OrderBy(itemBogus, query.SortDirectionAsc)
	without := coll.Query().
		WhereGreaterThanOrEqualTo(itemPrice, 10)

	// The chain with the unresolvable calls describes the same query as the
	// chain without them.
	assert.Equal(t, without.Descriptor(), withBogus.Descriptor())

	_, err := withBogus.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []query.Filter{
		{Field: "price", Op: query.OperatorGreaterThanOrEqual, Value: 10},
	}, fake.lastDesc.Filters)
	assert.Nil(t, fake.lastDesc.Order)
}

func TestAll_DecodesSnapshotsAndAssignsIDs(t *testing.T) {
	fake := &fakeInteractor{snaps: []store.Snapshot{
		{ID: "a", Data: document.Document{"name": "widget", "price": 12.5}},
		{ID: "b", Data: document.Document{"name": "gadget", "price": 3.0}},
	}}
	coll := New[item](fake)

	records, err := coll.Query().All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, item{ID: "a", Name: "widget", Price: 12.5}, records[0])
	assert.Equal(t, item{ID: "b", Name: "gadget", Price: 3.0}, records[1])
}

func TestAll_DecodeFailureIsStoreError(t *testing.T) {
	fake := &fakeInteractor{snaps: []store.Snapshot{
		{ID: "a", Data: document.Document{"price": "not a number"}},
	}}
	coll := New[item](fake)

	_, err := coll.Query().All(context.Background())
	require.Error(t, err)
	assert.Equal(t, store.KindStore, store.KindOf(err))
}

func TestAll_StoreFailureIsWrapped(t *testing.T) {
	fake := &fakeInteractor{err: errors.New("connection reset")}
	coll := New[item](fake)

	_, err := coll.Query().All(context.Background())
	require.Error(t, err)
	assert.Equal(t, store.KindStore, store.KindOf(err))
	assert.False(t, store.IsNotFound(err))
}

func TestFirst_EmptyResultIsNotAnError(t *testing.T) {
	fake := &fakeInteractor{}
	coll := New[item](fake)

	rec, err := coll.Query().WhereEqualTo(itemName, "nope").First(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, 1, fake.lastDesc.Limit)
}

func TestFirst_ReturnsFirstMatch(t *testing.T) {
	fake := &fakeInteractor{snaps: []store.Snapshot{
		{ID: "a", Data: document.Document{"name": "widget", "price": 1.0}},
	}}
	coll := New[item](fake)

	rec, err := coll.Query().First(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "widget", rec.Name)
}

func TestCount(t *testing.T) {
	fake := &fakeInteractor{snaps: []store.Snapshot{
		{ID: "a", Data: document.Document{"name": "x", "price": 1.0}},
		{ID: "b", Data: document.Document{"name": "y", "price": 2.0}},
	}}
	coll := New[item](fake)

	n, err := coll.Query().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGet_NotFoundPassesThrough(t *testing.T) {
	fake := &fakeInteractor{getFn: func(id string) (store.Snapshot, error) {
		return store.Snapshot{}, store.NotFoundf("document %q does not exist", id)
	}}
	coll := New[item](fake)

	_, err := coll.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestGet_DecodesRecord(t *testing.T) {
	fake := &fakeInteractor{getFn: func(id string) (store.Snapshot, error) {
		return store.Snapshot{ID: id, Data: document.Document{"name": "widget", "price": 9.5}}, nil
	}}
	coll := New[item](fake)

	rec, err := coll.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, item{ID: "abc", Name: "widget", Price: 9.5}, *rec)
}

func TestGet_OtherFailuresBecomeStoreErrors(t *testing.T) {
	fake := &fakeInteractor{getFn: func(id string) (store.Snapshot, error) {
		return store.Snapshot{}, errors.New("permission denied")
	}}
	coll := New[item](fake)

	_, err := coll.Get(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, store.KindStore, store.KindOf(err))
}

func TestSet_EncodesRecord(t *testing.T) {
	fake := &fakeInteractor{}
	coll := New[item](fake)

	id, err := coll.Set(context.Background(), item{Name: "widget", Price: 2.5}, WithID("w1"))
	require.NoError(t, err)
	assert.Equal(t, "w1", id)
	assert.Equal(t, "widget", fake.lastDoc["name"])
	assert.False(t, fake.lastMerge)
}

func TestSet_GeneratedID(t *testing.T) {
	fake := &fakeInteractor{}
	coll := New[item](fake)

	id, err := coll.Set(context.Background(), item{Name: "widget"})
	require.NoError(t, err)
	assert.Equal(t, "generated", id)
	assert.Empty(t, fake.lastID)
}

func TestSetDocument_UntypedPayloadWithMerge(t *testing.T) {
	fake := &fakeInteractor{}
	coll := New[item](fake)

	_, err := coll.SetDocument(context.Background(), document.Document{"price": 4.0}, WithID("w1"), WithMerge())
	require.NoError(t, err)
	assert.Equal(t, document.Document{"price": 4.0}, fake.lastDoc)
	assert.True(t, fake.lastMerge)
}

func TestUpdate_ResolvesFieldReferences(t *testing.T) {
	fake := &fakeInteractor{}
	coll := New[item](fake)

	err := coll.Update(context.Background(), "w1", []Update{
		{Field: itemPrice, Value: 20.0},
		{Field: itemName, Value: "renamed"},
	})
	require.NoError(t, err)
	assert.Equal(t, "w1", fake.lastID)
	assert.Equal(t, document.Document{"price": 20.0, "name": "renamed"}, fake.lastUpdates)
}

func TestUpdate_UnresolvableFieldIsAHardError(t *testing.T) {
	fake := &fakeInteractor{}
	coll := New[item](fake)

	err := coll.Update(context.Background(), "w1", []Update{
		{Field: itemBogus, Value: 1},
	})
	require.Error(t, err)
	assert.Equal(t, store.KindStore, store.KindOf(err))
	assert.Nil(t, fake.lastUpdates)
}

func TestDelete(t *testing.T) {
	fake := &fakeInteractor{}
	coll := New[item](fake)

	require.NoError(t, coll.Delete(context.Background(), "w1"))
	assert.Equal(t, "w1", fake.lastID)
}

func TestDelete_FailureIsWrapped(t *testing.T) {
	fake := &fakeInteractor{err: errors.New("unavailable")}
	coll := New[item](fake)

	err := coll.Delete(context.Background(), "w1")
	require.Error(t, err)
	assert.Equal(t, store.KindStore, store.KindOf(err))
}
