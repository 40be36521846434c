// Package keyword provides keyword (BM25) indexing and search over food documents.
package keyword

import (
	"context"

	"github.com/hyperjump/kondate/internal/models"
)

// SearchOptions optional parameters for keyword search. Nil means use defaults.
type SearchOptions struct {
	// NameBoost multiplies the score of matches in the food name. Use 1.0 for no boost.
	NameBoost float64
	// Category restricts hits to one normalized category; empty means all.
	Category string
	// FuzzyEnabled matches terms within Fuzziness edits (1 or 2, default 1).
	FuzzyEnabled bool
	Fuzziness    int
}

// KeywordIndex defines keyword search operations.
type KeywordIndex interface {
	Index(ctx context.Context, doc *models.FoodDocument) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordResult, error)
	Delete(ctx context.Context, id string) error
	Close() error
	// DocCount returns the total number of documents in the index.
	DocCount() (uint64, error)
}

// KeywordResult is a single keyword search hit.
type KeywordResult struct {
	ID    string
	Score float64
}
