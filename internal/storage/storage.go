// Package storage defines the persistence interface for food documents.
package storage

import (
	"context"

	"github.com/hyperjump/kondate/internal/models"
)

// Storage defines food document persistence operations.
// Lookups of unknown IDs return an error wrapping models.ErrNotFound.
type Storage interface {
	CreateFood(ctx context.Context, doc *models.FoodDocument) error
	GetFood(ctx context.Context, id string) (*models.FoodDocument, error)
	UpdateFood(ctx context.Context, doc *models.FoodDocument) error
	DeleteFood(ctx context.Context, id string) error
	ListFoods(ctx context.Context, offset, limit int) ([]*models.FoodDocument, error)
	// ListFoodIDsBySource returns the IDs of every food ingested from source.
	ListFoodIDsBySource(ctx context.Context, source string) ([]string, error)

	// Stats
	CountFoods(ctx context.Context) (int64, error)
	CountFoodsByCategory(ctx context.Context) (map[string]int64, error)

	Close() error
}
