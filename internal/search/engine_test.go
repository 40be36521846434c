package search

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/kondate/internal/config"
	"github.com/hyperjump/kondate/internal/embedding"
	"github.com/hyperjump/kondate/internal/indexer"
	"github.com/hyperjump/kondate/internal/ingest"
	"github.com/hyperjump/kondate/internal/keyword"
	"github.com/hyperjump/kondate/internal/models"
	"github.com/hyperjump/kondate/internal/storage"
	"github.com/hyperjump/kondate/internal/vector"
)

func testConfig() *config.SearchConfig {
	return &config.SearchConfig{
		DefaultLimit:      10,
		MaxLimit:          20,
		TopKCandidates:    50,
		KeywordTitleBoost: 3,
		KeywordWeight:     0.4,
		SemanticWeight:    0.6,
	}
}

// newSampleEngine indexes the built-in sample corpus.
func newSampleEngine(t *testing.T) (*Engine, *vector.MemoryIndex) {
	t.Helper()
	ctx := context.Background()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "foods.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	emb := embedding.NewHashingEmbedder(128)
	vecIndex, err := vector.NewMemoryIndex(128)
	if err != nil {
		t.Fatal(err)
	}
	kwIndex, err := keyword.NewMemoryBleveIndex()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = kwIndex.Close() })

	foods, err := ingest.SampleFoods()
	if err != nil {
		t.Fatal(err)
	}
	idx := indexer.New(store, emb, vecIndex, kwIndex, nil)
	if _, err := idx.ReplaceSource(ctx, ingest.SampleSource, foods, nil); err != nil {
		t.Fatal(err)
	}
	return NewEngine(store, emb, vecIndex, kwIndex, testConfig()), vecIndex
}

func TestEngine_Search(t *testing.T) {
	engine, _ := newSampleEngine(t)
	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "salmon dinner"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected results")
	}
	top := resp.Results[0]
	if top.Document.Name != "Grilled Salmon" {
		t.Errorf("top = %q, want Grilled Salmon", top.Document.Name)
	}
	if top.Rank != 1 || top.KeywordScore != 1 {
		t.Errorf("top rank=%d keyword=%v", top.Rank, top.KeywordScore)
	}
	if !strings.Contains(top.Highlights["content"], "**Salmon**") {
		t.Errorf("highlight = %q", top.Highlights["content"])
	}
	if resp.Total < len(resp.Results) || len(resp.Results) > 10 {
		t.Errorf("total=%d results=%d", resp.Total, len(resp.Results))
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].Score > resp.Results[i-1].Score {
			t.Fatal("results should be ordered by score")
		}
	}
}

func TestEngine_SearchCategoryAndLimit(t *testing.T) {
	engine, _ := newSampleEngine(t)
	ctx := context.Background()

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "greek yogurt", Category: "Snacks"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected results")
	}
	for _, r := range resp.Results {
		if r.Document.Category != "snacks" {
			t.Errorf("%s has category %s", r.Document.Name, r.Document.Category)
		}
	}

	resp, err = engine.Search(ctx, &models.SearchQuery{Query: "chicken vegetables pasta", Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 || resp.Total <= 2 {
		t.Errorf("results=%d total=%d, want 2 of more", len(resp.Results), resp.Total)
	}

	q := &models.SearchQuery{Query: "rice", Limit: 500}
	if _, err := engine.Search(ctx, q); err != nil {
		t.Fatal(err)
	}
	if q.Limit != 20 {
		t.Errorf("limit = %d, want max 20", q.Limit)
	}
}

func TestEngine_SearchModes(t *testing.T) {
	engine, _ := newSampleEngine(t)
	ctx := context.Background()

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "oatmel", KeywordEnabled: true, Fuzzy: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) == 0 || resp.Results[0].Document.Name != "Oatmeal" {
		t.Fatalf("fuzzy keyword search should find Oatmeal, got %+v", resp.Results)
	}
	if resp.Results[0].SemanticScore != 0 {
		t.Error("keyword-only search should not carry semantic scores")
	}

	resp, err = engine.Search(ctx, &models.SearchQuery{Query: "tuna steak", SemanticEnabled: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) == 0 || resp.Results[0].Document.Name != "Tuna Steak" {
		t.Fatalf("semantic search should rank Tuna Steak first, got %+v", resp.Results)
	}
	if resp.Results[0].KeywordScore != 0 {
		t.Error("semantic-only search should not carry keyword scores")
	}

	if _, err := engine.Search(ctx, &models.SearchQuery{}); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestEngine_Counts(t *testing.T) {
	engine, vec := newSampleEngine(t)
	if engine.VectorIndexSize() != 30 || vec.Size() != 30 {
		t.Errorf("VectorIndexSize = %d", engine.VectorIndexSize())
	}
	n, err := engine.KeywordDocCount()
	if err != nil || n != 30 {
		t.Errorf("KeywordDocCount = %d, %v", n, err)
	}
}

func TestCorpus_Search(t *testing.T) {
	engine, _ := newSampleEngine(t)
	corpus := NewCorpus(engine)

	hits, err := corpus.Search(context.Background(), "eggs breakfast", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 || len(hits) > 10 {
		t.Fatalf("got %d hits", len(hits))
	}
	if hits[0].Text != "Scrambled Eggs - Category: breakfast, Serving: 2 eggs, Calories: 140 kcal" {
		t.Errorf("top hit = %q", hits[0].Text)
	}

	_, err = corpus.Search(context.Background(), "", 10)
	if !errors.Is(err, models.ErrCorpusUnavailable) {
		t.Errorf("err = %v, want ErrCorpusUnavailable", err)
	}
}
