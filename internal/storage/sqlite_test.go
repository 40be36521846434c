package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kondate/internal/models"
)

func openStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "db", "foods.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStorage_CRUD(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	doc := &models.FoodDocument{
		ID:          "food1",
		Name:        "Oatmeal",
		Category:    "breakfast",
		ServingSize: "1 cup cooked",
		Calories:    150,
		Content:     models.FormatContent("Oatmeal", "breakfast", "1 cup cooked", 150),
		Source:      "meal_data.csv",
		Metadata:    map[string]interface{}{"row": float64(3)},
	}
	if err := store.CreateFood(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if doc.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := store.GetFood(ctx, "food1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Oatmeal" || got.Calories != 150 || got.ServingSize != "1 cup cooked" {
		t.Errorf("got %+v", got)
	}
	if got.Metadata["row"] != float64(3) {
		t.Errorf("metadata = %v", got.Metadata)
	}

	doc.Calories = 160
	if err := store.UpdateFood(ctx, doc); err != nil {
		t.Fatal(err)
	}
	got, _ = store.GetFood(ctx, "food1")
	if got.Calories != 160 {
		t.Errorf("expected 160 kcal, got %d", got.Calories)
	}

	list, err := store.ListFoods(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 food, got %d", len(list))
	}

	if err := store.DeleteFood(ctx, "food1"); err != nil {
		t.Fatal(err)
	}
	_, err = store.GetFood(ctx, "food1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteStorage_UpdateMissing(t *testing.T) {
	store := openStore(t)
	err := store.UpdateFood(context.Background(), &models.FoodDocument{ID: "ghost", Name: "x", Category: "other", Content: "x"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_NullableColumns(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if err := store.CreateFood(ctx, &models.FoodDocument{ID: "bare", Name: "Apple", Category: "snacks", Content: "Apple"}); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetFood(ctx, "bare")
	if err != nil {
		t.Fatal(err)
	}
	if got.Calories != 0 || got.Metadata != nil || got.Source != "" {
		t.Errorf("got %+v", got)
	}
}

func TestSQLiteStorage_SourcesAndCounts(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	n, err := store.CountFoods(ctx)
	if err != nil || n != 0 {
		t.Errorf("CountFoods: %v, %d", err, n)
	}
	foods := []*models.FoodDocument{
		{ID: "a", Name: "Eggs", Category: "breakfast", Content: "Eggs", Source: "one.csv"},
		{ID: "b", Name: "Soup", Category: "lunch", Content: "Soup", Source: "one.csv"},
		{ID: "c", Name: "Toast", Category: "breakfast", Content: "Toast", Source: "two.csv"},
	}
	for _, f := range foods {
		if err := store.CreateFood(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	n, _ = store.CountFoods(ctx)
	if n != 3 {
		t.Errorf("expected 3 foods, got %d", n)
	}
	byCat, err := store.CountFoodsByCategory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if byCat["breakfast"] != 2 || byCat["lunch"] != 1 {
		t.Errorf("by category = %v", byCat)
	}

	ids, err := store.ListFoodIDsBySource(ctx, "one.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("ids = %v", ids)
	}
}
