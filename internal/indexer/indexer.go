// Package indexer writes food documents into storage, the keyword index and the vector index.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperjump/kondate/internal/embedding"
	"github.com/hyperjump/kondate/internal/fileid"
	"github.com/hyperjump/kondate/internal/ingest"
	"github.com/hyperjump/kondate/internal/keyword"
	"github.com/hyperjump/kondate/internal/models"
	"github.com/hyperjump/kondate/internal/storage"
	"github.com/hyperjump/kondate/internal/vector"
	"go.uber.org/zap"
)

// Indexer keeps storage, the keyword index and the vector index in step.
type Indexer struct {
	storage      storage.Storage
	embedder     embedding.Embedder
	vectorIndex  vector.VectorIndex
	keywordIndex keyword.KeywordIndex
	parser       *ingest.Parser
	logger       *zap.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(idx *Indexer) { idx.logger = l }
}

// New creates an indexer with the given dependencies.
// parser may be nil; a default ingest.Parser is used then.
func New(
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.VectorIndex,
	keywordIndex keyword.KeywordIndex,
	parser *ingest.Parser,
	opts ...Option,
) *Indexer {
	if parser == nil {
		parser = ingest.NewParser()
	}
	idx := &Indexer{
		storage:      store,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
		parser:       parser,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexFood stores and indexes one food item. An existing item with the same
// ID is replaced. A missing ID is filled with a random UUID.
func (idx *Indexer) IndexFood(ctx context.Context, input *models.FoodInput) (*models.FoodDocument, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("food name cannot be empty")
	}
	if input.ID == "" {
		input.ID = uuid.New().String()
	}
	doc := &models.FoodDocument{
		ID:          input.ID,
		Name:        strings.TrimSpace(input.Name),
		Category:    models.NormalizeCategory(input.Category),
		ServingSize: input.ServingSize,
		Calories:    input.Calories,
		Content:     Preprocess(input.Text()),
		Source:      input.Source,
		Metadata:    input.Metadata,
	}

	if _, err := idx.storage.GetFood(ctx, doc.ID); err == nil {
		if err := idx.DeleteFood(ctx, doc.ID); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up food: %w", err)
	}

	if err := idx.storage.CreateFood(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store food: %w", err)
	}
	emb, err := idx.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if err := idx.vectorIndex.Upsert(ctx, []string{doc.ID}, [][]float32{emb}); err != nil {
		return nil, fmt.Errorf("failed to index vector: %w", err)
	}
	if err := idx.keywordIndex.Index(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to index keywords: %w", err)
	}
	idx.logger.Debug("indexer food indexed", zap.String("id", doc.ID), zap.String("category", doc.Category))
	return doc, nil
}

// DeleteFood removes a food item from all indices and storage.
// It returns an error wrapping models.ErrNotFound for unknown IDs.
func (idx *Indexer) DeleteFood(ctx context.Context, id string) error {
	if _, err := idx.storage.GetFood(ctx, id); err != nil {
		return err
	}
	if err := idx.keywordIndex.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete from keyword index: %w", err)
	}
	if err := idx.vectorIndex.Remove(ctx, []string{id}); err != nil {
		return fmt.Errorf("failed to delete from vector index: %w", err)
	}
	if err := idx.storage.DeleteFood(ctx, id); err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}
	idx.logger.Debug("indexer food deleted", zap.String("id", id))
	return nil
}

// ReplaceSource replaces every item previously ingested from source with
// items. Item IDs are derived from the source, so re-ingesting keeps them stable.
func (idx *Indexer) ReplaceSource(ctx context.Context, source string, items []*models.FoodInput, metadata map[string]interface{}) (int, error) {
	key := fileid.SourceKey(source)
	if _, err := idx.RemoveSource(ctx, key); err != nil {
		return 0, err
	}
	n := 0
	for i, item := range items {
		item.ID = fileid.ItemID(key, i)
		item.Source = key
		if len(metadata) > 0 {
			merged := make(map[string]interface{}, len(metadata)+len(item.Metadata))
			for k, v := range item.Metadata {
				merged[k] = v
			}
			for k, v := range metadata {
				merged[k] = v
			}
			item.Metadata = merged
		}
		if _, err := idx.IndexFood(ctx, item); err != nil {
			return n, fmt.Errorf("item %d (%s): %w", i, item.Name, err)
		}
		n++
	}
	idx.logger.Debug("indexer source replaced", zap.String("source", key), zap.Int("items", n))
	return n, nil
}

// RemoveSource deletes every item ingested from source and returns how many were removed.
func (idx *Indexer) RemoveSource(ctx context.Context, source string) (int, error) {
	ids, err := idx.storage.ListFoodIDsBySource(ctx, fileid.SourceKey(source))
	if err != nil {
		return 0, fmt.Errorf("failed to list source items: %w", err)
	}
	for _, id := range ids {
		if err := idx.DeleteFood(ctx, id); err != nil && !errors.Is(err, models.ErrNotFound) {
			return 0, err
		}
	}
	return len(ids), nil
}

const (
	metaKeySourceMtime = "source_mtime"
	metaKeySourceSize  = "source_size"
)

// IndexFile parses a corpus file and replaces the items previously ingested
// from it. If allowedExts is non-empty, the file's extension must be in the
// list. Unchanged files (same mtime and size) are skipped; skipped reports that.
func (idx *Indexer) IndexFile(ctx context.Context, path string, allowedExts []string) (n int, skipped bool, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, false, fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return 0, false, fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return 0, false, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, false, fmt.Errorf("not a regular file: %s", absPath)
	}
	if idx.unchanged(ctx, absPath, info) {
		idx.logger.Debug("indexer skipping unchanged file", zap.String("path", absPath))
		return 0, true, nil
	}

	items, err := idx.parser.ParseFile(absPath)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", absPath, err)
	}
	n, err = idx.ReplaceSource(ctx, absPath, items, map[string]interface{}{
		metaKeySourceMtime: strconv.FormatInt(info.ModTime().UnixNano(), 10),
		metaKeySourceSize:  strconv.FormatInt(info.Size(), 10),
	})
	if err != nil {
		return n, false, err
	}
	idx.logger.Debug("indexer file indexed", zap.String("path", absPath), zap.Int("items", n))
	return n, false, nil
}

// unchanged reports whether items from absPath were indexed with the file's current mtime and size.
func (idx *Indexer) unchanged(ctx context.Context, absPath string, info os.FileInfo) bool {
	ids, err := idx.storage.ListFoodIDsBySource(ctx, fileid.SourceKey(absPath))
	if err != nil || len(ids) == 0 {
		return false
	}
	doc, err := idx.storage.GetFood(ctx, ids[0])
	if err != nil || doc.Metadata == nil {
		return false
	}
	// Stored as strings: UnixNano exceeds float64 precision after a JSON round trip.
	return metadataInt64(doc.Metadata, metaKeySourceMtime) == info.ModTime().UnixNano() &&
		metadataInt64(doc.Metadata, metaKeySourceSize) == info.Size()
}

func metadataInt64(m map[string]interface{}, key string) int64 {
	switch n := m[key].(type) {
	case string:
		x, _ := strconv.ParseInt(n, 10, 64)
		return x
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// IndexDirectory walks dir (recursively when recursive is set) and indexes
// each regular file whose extension is in allowedExts. It returns the number
// of files indexed and the first error encountered.
func (idx *Indexer) IndexDirectory(ctx context.Context, dir string, allowedExts []string, recursive bool) (files int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != absDir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if len(allowedExts) > 0 && !extensionAllowed(filepath.Ext(path), allowedExts) {
			return nil
		}
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if _, _, indexErr := idx.IndexFile(ctx, path, allowedExts); indexErr != nil {
			return indexErr
		}
		files++
		return nil
	})
	return files, err
}

// RemoveFile deletes the items ingested from path.
func (idx *Indexer) RemoveFile(ctx context.Context, path string) (int, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	return idx.RemoveSource(ctx, absPath)
}

// Reindex rebuilds the keyword and vector entries of every stored food. It
// is used at startup when the indices were lost but the database survived.
func (idx *Indexer) Reindex(ctx context.Context) (int, error) {
	const page = 500
	n := 0
	for offset := 0; ; offset += page {
		docs, err := idx.storage.ListFoods(ctx, offset, page)
		if err != nil {
			return n, fmt.Errorf("failed to list foods: %w", err)
		}
		for _, doc := range docs {
			emb, err := idx.embedder.Embed(ctx, doc.Content)
			if err != nil {
				return n, fmt.Errorf("failed to generate embedding: %w", err)
			}
			if err := idx.vectorIndex.Upsert(ctx, []string{doc.ID}, [][]float32{emb}); err != nil {
				return n, fmt.Errorf("failed to index vector: %w", err)
			}
			if err := idx.keywordIndex.Index(ctx, doc); err != nil {
				return n, fmt.Errorf("failed to index keywords: %w", err)
			}
			n++
		}
		if len(docs) < page {
			return n, nil
		}
	}
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
