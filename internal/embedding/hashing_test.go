package embedding

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kondate/internal/config"
)

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func TestHashingEmbedder(t *testing.T) {
	e := NewHashingEmbedder(64)
	ctx := context.Background()

	eggs, err := e.Embed(ctx, "Scrambled Eggs - Category: breakfast")
	if err != nil {
		t.Fatal(err)
	}
	if len(eggs) != 64 {
		t.Fatalf("len = %d", len(eggs))
	}
	if n := dot(eggs, eggs); math.Abs(n-1) > 1e-5 {
		t.Errorf("norm^2 = %v, want 1", n)
	}

	again, _ := e.Embed(ctx, "scrambled eggs, category: BREAKFAST")
	if d := dot(eggs, again); math.Abs(d-1) > 1e-5 {
		t.Errorf("same words should embed identically, similarity %v", d)
	}

	query, _ := e.Embed(ctx, "eggs breakfast")
	other, _ := e.Embed(ctx, "Grilled Salmon - Category: dinner")
	if dot(eggs, query) <= dot(other, query) {
		t.Errorf("shared words should score higher: %v <= %v", dot(eggs, query), dot(other, query))
	}

	empty, _ := e.Embed(ctx, "   ")
	if dot(empty, empty) != 0 {
		t.Error("empty text should embed to the zero vector")
	}
}

func TestHashingEmbedder_DefaultsAndCancel(t *testing.T) {
	if NewHashingEmbedder(0).Dimensions() != 384 {
		t.Error("expected default dimension 384")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHashingEmbedder(8).Embed(ctx, "x"); err == nil {
		t.Error("expected context error")
	}
}

func TestNew_FallsBackToHashing(t *testing.T) {
	cfg := config.EmbeddingConfig{
		ModelPath:  filepath.Join(t.TempDir(), "missing.onnx"),
		Dimensions: 32,
		MaxTokens:  64,
	}
	e := New(cfg, nil)
	if _, ok := e.(*HashingEmbedder); !ok {
		t.Fatalf("got %T, want *HashingEmbedder", e)
	}

	cfg.CacheSize = 10
	e = New(cfg, nil)
	cached, ok := e.(*CachedEmbedder)
	if !ok {
		t.Fatalf("got %T, want *CachedEmbedder", e)
	}
	if cached.Dimensions() != 32 {
		t.Errorf("Dimensions = %d", cached.Dimensions())
	}
}
