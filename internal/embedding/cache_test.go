package embedding

import (
	"context"
	"testing"
)

func TestEmbeddingCache_GetSet(t *testing.T) {
	c := NewEmbeddingCache(2)
	if v, ok := c.Get("a"); ok || v != nil {
		t.Fatal("expected miss")
	}
	c.Set("a", []float32{1, 2, 3})
	v, ok := c.Get("a")
	if !ok || len(v) != 3 || v[0] != 1 {
		t.Errorf("Get: got %v, %v", v, ok)
	}
	c.Set("b", []float32{4, 5})
	c.Set("c", []float32{6}) // evicts a
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to remain")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

type countingEmbedder struct {
	*HashingEmbedder
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.HashingEmbedder.Embed(ctx, text)
}

func TestCachedEmbedder(t *testing.T) {
	inner := &countingEmbedder{HashingEmbedder: NewHashingEmbedder(16)}
	e := NewCachedEmbedder(inner, 8)
	ctx := context.Background()

	first, err := e.Embed(ctx, "eggs breakfast")
	if err != nil {
		t.Fatal(err)
	}
	second, _ := e.Embed(ctx, "eggs breakfast")
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
	if len(first) != 16 || &first[0] != &second[0] {
		t.Error("expected the cached vector to be returned")
	}

	batch, err := e.EmbedBatch(ctx, []string{"eggs breakfast", "chicken lunch"})
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 2 || inner.calls != 2 {
		t.Errorf("batch len=%d calls=%d, want 2 and 2", len(batch), inner.calls)
	}
	if e.Dimensions() != 16 {
		t.Errorf("Dimensions = %d", e.Dimensions())
	}
}
