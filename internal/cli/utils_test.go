package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/kondate/internal/allocator"
	"github.com/hyperjump/kondate/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Query:     "salmon",
		QueryTime: 7,
		Total:     1,
		Results: []*models.SearchResult{{
			Rank:          1,
			Score:         0.92,
			KeywordScore:  1,
			SemanticScore: 0.8,
			Document: &models.FoodDocument{
				ID:          "src:abc:3",
				Name:        "Baked Salmon",
				Category:    "dinner",
				ServingSize: "4 oz",
				Calories:    350,
				Content:     "Baked Salmon - Category: dinner, Serving: 4 oz, Calories: 350",
			},
			Highlights: map[string]string{"content": "Baked **Salmon** - Category: dinner"},
		}},
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{" JSON ", OutputJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Query != "salmon" || len(decoded.Results) != 1 || decoded.Results[0].Document.ID != "src:abc:3" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteSearchResults_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`Found 1 foods for "salmon"`, "#1 Baked Salmon [dinner]", "350 kcal per 4 oz", "**Salmon**", "ID: src:abc:3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteSearchResults(&buf, &models.SearchResponse{Query: "x"}, OutputText)
	if !strings.Contains(buf.String(), "Found 0 foods") {
		t.Errorf("got %q", buf.String())
	}
}

func TestWritePlan_Text(t *testing.T) {
	result := &models.PlanResult{
		CaloricPlan: allocator.AllocateRemaining(2000, map[models.MealSlot][]string{models.Breakfast: {"eggs"}}),
		Candidates: map[models.MealSlot][]models.FoodCandidate{
			models.Lunch: {{Content: "Chicken Salad", Calories: models.KnownCalories(350), MealType: models.Lunch}},
		},
		MealPlan: "**LUNCH:**\n- Chicken Salad\nSubtotal: 350 calories\n",
		Notes:    []string{"no options found for snacks"},
	}
	var buf bytes.Buffer
	if err := WritePlan(&buf, result, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Breakfast", "eaten", "to plan", "consumed 400 kcal", "Lunch      1", "Note: no options found for snacks", "**LUNCH:**"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteStatus(t *testing.T) {
	st := Status{
		Foods:            30,
		FoodsByCategory:  map[string]int64{"snacks": 8, "breakfast": 7},
		KeywordDocuments: 30,
		VectorIndexSize:  30,
		DiskUsageBytes:   3 << 20,
	}
	var buf bytes.Buffer
	_ = WriteStatus(&buf, st, OutputText)
	out := buf.String()
	if strings.Index(out, "breakfast") > strings.Index(out, "snacks") {
		t.Errorf("categories should be sorted:\n%s", out)
	}
	if !strings.Contains(out, "3.00 MB") {
		t.Errorf("missing disk usage:\n%s", out)
	}

	buf.Reset()
	_ = WriteStatus(&buf, st, OutputJSON)
	var decoded Status
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || decoded.Foods != 30 {
		t.Errorf("json status = %+v, %v", decoded, err)
	}
}
