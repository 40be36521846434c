// Package embedding turns food descriptions into vectors for semantic search.
package embedding

import (
	"context"
	"os"

	"github.com/hyperjump/kondate/internal/config"
	"go.uber.org/zap"
)

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// New returns the ONNX embedder when the model file exists and the binary
// was built with cgo, and the hashing embedder otherwise. The result is
// wrapped in an LRU cache of cfg.CacheSize entries.
func New(cfg config.EmbeddingConfig, logger *zap.Logger) Embedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	var inner Embedder
	if _, err := os.Stat(cfg.ModelPath); err == nil {
		onnx, err := NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens)
		if err == nil {
			inner = onnx
		} else {
			logger.Warn("ONNX embedder unavailable, using hashing embedder", zap.Error(err))
		}
	} else {
		logger.Info("embedding model not found, using hashing embedder", zap.String("model_path", cfg.ModelPath))
	}
	if inner == nil {
		inner = NewHashingEmbedder(cfg.Dimensions)
	}
	if cfg.CacheSize > 0 {
		return NewCachedEmbedder(inner, cfg.CacheSize)
	}
	return inner
}

func embedEach(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}
