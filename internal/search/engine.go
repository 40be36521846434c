// Package search runs hybrid keyword and semantic search over the food corpus.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hyperjump/kondate/internal/config"
	"github.com/hyperjump/kondate/internal/embedding"
	"github.com/hyperjump/kondate/internal/keyword"
	"github.com/hyperjump/kondate/internal/models"
	"github.com/hyperjump/kondate/internal/storage"
	"github.com/hyperjump/kondate/internal/vector"
	"go.uber.org/zap"
)

const highlightLength = 160

// Engine runs hybrid (keyword + semantic) search over food documents.
type Engine struct {
	storage      storage.Storage
	embedder     embedding.Embedder
	vectorIndex  vector.VectorIndex
	keywordIndex keyword.KeywordIndex
	config       *config.SearchConfig
	logger       *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.VectorIndex,
	keywordIndex keyword.KeywordIndex,
	cfg *config.SearchConfig,
	opts ...Option,
) *Engine {
	e := &Engine{
		storage:      store,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
		config:       cfg,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs the enabled searches concurrently and fuses their scores.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := ProcessQuery(query, e.config); err != nil {
		return nil, err
	}

	var (
		keywordResults  []*keyword.KeywordResult
		semanticResults []*vector.VectorResult
		errChan         = make(chan error, 2)
		wg              sync.WaitGroup
	)

	if query.KeywordEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := e.keywordIndex.Search(ctx, query.Query, e.config.TopKCandidates, &keyword.SearchOptions{
				NameBoost:    e.config.KeywordTitleBoost,
				Category:     query.Category,
				FuzzyEnabled: query.Fuzzy,
			})
			if err != nil {
				errChan <- fmt.Errorf("keyword search failed: %w", err)
				return
			}
			keywordResults = results
		}()
	}

	if query.SemanticEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			queryEmbedding, err := e.embedder.Embed(ctx, query.Query)
			if err != nil {
				errChan <- fmt.Errorf("embedding failed: %w", err)
				return
			}
			results, err := e.vectorIndex.Search(ctx, queryEmbedding, e.config.TopKCandidates)
			if err != nil {
				errChan <- fmt.Errorf("vector search failed: %w", err)
				return
			}
			semanticResults = results
		}()
	}

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	keywordWeight, semanticWeight := e.weights(query)
	fused := Fuse(NormalizeKeywordScores(keywordResults), NormalizeSemanticScores(semanticResults), keywordWeight, semanticWeight)

	response := &models.SearchResponse{
		Results: make([]*models.SearchResult, 0, query.Limit),
		Query:   query.Query,
	}
	for _, r := range fused {
		if r.Score <= 0 {
			continue
		}
		doc, err := e.storage.GetFood(ctx, r.ID)
		if err != nil {
			e.logger.Debug("search hit without stored food", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		// Vector hits are not category filtered by the index.
		if query.Category != "" && doc.Category != query.Category {
			continue
		}
		response.Total++
		if len(response.Results) >= query.Limit {
			continue
		}
		response.Results = append(response.Results, &models.SearchResult{
			Document:      doc,
			Score:         r.Score,
			KeywordScore:  r.KeywordScore,
			SemanticScore: r.SemanticScore,
			Highlights:    map[string]string{"content": Highlight(doc.Content, query.Query, highlightLength)},
			Rank:          len(response.Results) + 1,
		})
	}
	response.QueryTime = time.Since(startTime).Milliseconds()
	return response, nil
}

// weights returns the configured weights for the enabled searches. A single
// enabled search gets full weight.
func (e *Engine) weights(query *models.SearchQuery) (float64, float64) {
	switch {
	case query.KeywordEnabled && !query.SemanticEnabled:
		return 1, 0
	case !query.KeywordEnabled && query.SemanticEnabled:
		return 0, 1
	}
	kw, sem := e.config.KeywordWeight, e.config.SemanticWeight
	if kw+sem <= 0 {
		return 0.5, 0.5
	}
	return kw / (kw + sem), sem / (kw + sem)
}

// VectorIndexSize returns the number of vectors in the semantic index.
func (e *Engine) VectorIndexSize() int {
	return e.vectorIndex.Size()
}

// KeywordDocCount returns the number of documents in the keyword index.
func (e *Engine) KeywordDocCount() (uint64, error) {
	return e.keywordIndex.DocCount()
}
