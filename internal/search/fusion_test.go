package search

import (
	"testing"

	"github.com/hyperjump/kondate/internal/keyword"
	"github.com/hyperjump/kondate/internal/vector"
)

func TestNormalizeKeywordScores(t *testing.T) {
	m := NormalizeKeywordScores([]*keyword.KeywordResult{
		{ID: "a", Score: 2},
		{ID: "b", Score: 4},
		{ID: "c", Score: 1},
	})
	if m["b"] != 1.0 || m["a"] != 0.5 || m["c"] != 0.25 {
		t.Errorf("unexpected map %v", m)
	}
	if len(NormalizeKeywordScores(nil)) != 0 {
		t.Error("nil results should give an empty map")
	}
	zero := NormalizeKeywordScores([]*keyword.KeywordResult{{ID: "z", Score: 0}})
	if zero["z"] != 0 {
		t.Errorf("zero score = %v", zero["z"])
	}
}

func TestNormalizeSemanticScores(t *testing.T) {
	m := NormalizeSemanticScores([]*vector.VectorResult{
		{ID: "a", Score: 0.9},
		{ID: "b", Score: -0.2},
		{ID: "c", Score: 1.0000001},
	})
	if m["a"] != 0.9 || m["b"] != 0 || m["c"] != 1 {
		t.Errorf("unexpected map %v", m)
	}
}

func TestFuse(t *testing.T) {
	kw := map[string]float64{"d1": 1.0, "d2": 0.5}
	sem := map[string]float64{"d1": 0.5, "d2": 1.0, "d3": 0.5}
	results := Fuse(kw, sem, 0.4, 0.6)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// d2: 0.2+0.6=0.8, d1: 0.4+0.3=0.7, d3: 0.3
	want := []string{"d2", "d1", "d3"}
	for i, id := range want {
		if results[i].ID != id {
			t.Errorf("results[%d] = %s, want %s", i, results[i].ID, id)
		}
	}
	if results[2].KeywordScore != 0 || results[2].SemanticScore != 0.5 {
		t.Errorf("d3 = %+v", results[2])
	}

	tied := Fuse(map[string]float64{"b": 1, "a": 1}, nil, 1, 0)
	if tied[0].ID != "a" {
		t.Errorf("ties should order by ID, got %s first", tied[0].ID)
	}
}
