// Package cli renders kondate results for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hyperjump/kondate/internal/models"
	"github.com/hyperjump/kondate/pkg/utils"
)

// OutputFormat is the format of command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is indented JSON for other programs.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text", "json" or "" (text).
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(OutputText):
		return OutputText, nil
	case string(OutputJSON):
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

const rule = "─────────────────────────────────────────────────────────"

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResults writes a food search response in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "\nFound %d foods for %q in %dms\n\n", response.Total, response.Query, response.QueryTime)
	for _, result := range response.Results {
		doc := result.Document
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "#%d %s [%s] score %.4f (keyword %.4f, semantic %.4f)\n",
			result.Rank, doc.Name, doc.Category, result.Score, result.KeywordScore, result.SemanticScore)
		if doc.Calories > 0 {
			fmt.Fprintf(w, "%d kcal", doc.Calories)
			if doc.ServingSize != "" {
				fmt.Fprintf(w, " per %s", doc.ServingSize)
			}
			fmt.Fprintln(w)
		}
		text := doc.Content
		if h, ok := result.Highlights["content"]; ok && h != "" {
			text = h
		}
		fmt.Fprintf(w, "%s\nID: %s\n\n", utils.Truncate(text, 200), doc.ID)
	}
	return nil
}

// WriteCaloricPlan writes the per-slot calorie split.
func WriteCaloricPlan(w io.Writer, plan models.CaloricPlan, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, plan)
	}
	fmt.Fprintln(w, "Caloric plan:")
	for _, slot := range models.MealSlots {
		alloc := plan.Allocation(slot)
		state := "eaten"
		if plan.Remaining(slot) {
			state = "to plan"
		}
		fmt.Fprintf(w, "  %-10s %5d kcal  %5.1f%%  %s\n", slot.Title(), alloc.Calories, utils.Round(alloc.Percentage, 1), state)
	}
	fmt.Fprintf(w, "  consumed %d kcal, remaining %d kcal\n", plan.ConsumedCalories, plan.RemainingTarget)
	return nil
}

// WritePlan writes a full meal plan result.
func WritePlan(w io.Writer, result *models.PlanResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, result)
	}
	if err := WriteCaloricPlan(w, result.CaloricPlan, OutputText); err != nil {
		return err
	}
	if len(result.Candidates) > 0 {
		fmt.Fprintln(w, "\nCandidates:")
		for _, slot := range models.MealSlots {
			if cands, ok := result.Candidates[slot]; ok {
				fmt.Fprintf(w, "  %-10s %d\n", slot.Title(), len(cands))
			}
		}
	}
	for _, note := range result.Notes {
		fmt.Fprintf(w, "Note: %s\n", note)
	}
	fmt.Fprintf(w, "\n%s\n%s\n", rule, strings.TrimRight(result.MealPlan, "\n"))
	return nil
}

// Status summarizes the corpus and its indices.
type Status struct {
	Foods            int64            `json:"foods"`
	FoodsByCategory  map[string]int64 `json:"foods_by_category"`
	KeywordDocuments uint64           `json:"keyword_documents"`
	VectorIndexSize  int              `json:"vector_index_size"`
	DiskUsageBytes   int64            `json:"disk_usage_bytes"`
}

// WriteStatus writes corpus statistics.
func WriteStatus(w io.Writer, st Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "Foods:             %d\n", st.Foods)
	categories := make([]string, 0, len(st.FoodsByCategory))
	for c := range st.FoodsByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(w, "  %-16s %d\n", c, st.FoodsByCategory[c])
	}
	fmt.Fprintf(w, "Keyword documents: %d\n", st.KeywordDocuments)
	fmt.Fprintf(w, "Vector entries:    %d\n", st.VectorIndexSize)
	fmt.Fprintf(w, "Disk usage:        %.2f MB\n", utils.Round(float64(st.DiskUsageBytes)/(1<<20), 2))
	return nil
}
