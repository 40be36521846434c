// Package vector provides the embedding index behind semantic food search.
package vector

import "context"

// VectorIndex stores one embedding per food document and answers nearest-neighbour queries.
type VectorIndex interface {
	// Upsert adds vectors, replacing any existing vector with the same ID.
	Upsert(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)
	Remove(ctx context.Context, ids []string) error
	Save(path string) error
	Load(path string) error
	Size() int
	Close() error
}

// VectorResult is a single vector search hit keyed by food document ID.
type VectorResult struct {
	ID    string
	Score float64 // inner product; cosine similarity for normalized vectors
}
