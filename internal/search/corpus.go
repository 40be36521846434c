package search

import (
	"context"
	"fmt"

	"github.com/hyperjump/kondate/internal/models"
)

// Corpus exposes the engine to the candidate retriever: top-k hybrid hits as plain text.
type Corpus struct {
	engine *Engine
}

// NewCorpus wraps engine.
func NewCorpus(engine *Engine) *Corpus {
	return &Corpus{engine: engine}
}

// Search returns up to k documents most relevant to query. Errors wrap
// models.ErrCorpusUnavailable.
func (c *Corpus) Search(ctx context.Context, query string, k int) ([]models.CorpusHit, error) {
	resp, err := c.engine.Search(ctx, &models.SearchQuery{
		Query:           query,
		Limit:           k,
		KeywordEnabled:  true,
		SemanticEnabled: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrCorpusUnavailable, err)
	}
	hits := make([]models.CorpusHit, 0, len(resp.Results))
	for _, r := range resp.Results {
		hits = append(hits, models.CorpusHit{ID: r.Document.ID, Text: r.Document.Content, Score: r.Score})
	}
	return hits, nil
}
