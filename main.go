package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/asaidimu/go-docquery/core/collection"
	"github.com/asaidimu/go-docquery/core/record"
	"github.com/asaidimu/go-docquery/core/store"
	"github.com/asaidimu/go-docquery/memory"
)

// Item is a sample record type. The field references below are the handles
// used when building queries; the FieldNames table maps them to the stored
// field names.
type Item struct {
	ID    string  `json:"-"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

var (
	ItemName  = record.F("Name")
	ItemPrice = record.F("Price")
)

func (Item) CollectionName() string { return "items" }

func (Item) FieldNames() record.FieldMap {
	return record.FieldMap{
		ItemName:  "name",
		ItemPrice: "price",
	}
}

func (i *Item) SetDocumentID(id string) { i.ID = id }

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// An in-memory store stands in for the remote one. Swap in the firestore
	// package's interactor to run against a real project.
	interactor, err := store.NewEventEmittingInteractor(memory.New(logger))
	if err != nil {
		log.Fatalf("Failed to create interactor: %v", err)
	}

	unsubscribe := interactor.Subscribe(store.SetSuccess, func(ctx context.Context, event store.Event) error {
		logger.Info("document written",
			zap.String("collection", event.Collection),
			zap.String("id", event.DocumentID))
		return nil
	})
	defer unsubscribe()

	items := collection.New[Item](interactor, collection.WithLogger(logger))

	// --- Seed a few documents ---
	prices := []float64{5, 12, 8, 20, 15, 10, 3, 30}
	for i, p := range prices {
		id, err := items.Set(ctx, Item{Name: fmt.Sprintf("item-%d", i), Price: p})
		if err != nil {
			log.Fatalf("Failed to write item: %v", err)
		}
		fmt.Printf("wrote %s (price %.0f)\n", id, p)
	}

	// --- Fluent typed query ---
	expensive, err := items.Query().
		WhereGreaterThanOrEqualTo(ItemPrice, 10).
		OrderByDesc(ItemPrice).
		Limit(5).
		All(ctx)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	fmt.Println("\nitems with price >= 10, most expensive first:")
	for _, it := range expensive {
		fmt.Printf("  %-8s %-8s %6.2f\n", it.ID, it.Name, it.Price)
	}

	// --- Typed partial update ---
	target := expensive[0]
	if err := items.Update(ctx, target.ID, []collection.Update{
		{Field: ItemPrice, Value: target.Price * 0.9},
	}); err != nil {
		log.Fatalf("Update failed: %v", err)
	}

	updated, err := items.Get(ctx, target.ID)
	if err != nil {
		log.Fatalf("Get failed: %v", err)
	}
	fmt.Printf("\ndiscounted %s: %.2f -> %.2f\n", updated.Name, target.Price, updated.Price)

	// --- First with no match is empty, not an error ---
	none, err := items.Query().WhereGreaterThan(ItemPrice, 1000).First(ctx)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	fmt.Printf("items above 1000: %v\n", none)
}
