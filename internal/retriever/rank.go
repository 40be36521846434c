package retriever

import (
	"sort"

	"github.com/hyperjump/kondate/internal/models"
)

// unknownDistance ranks items without a calorie figure after every known item.
const unknownDistance = 999999

// Distance returns |calories - target|, or unknownDistance when calories are unknown.
func Distance(c models.Calories, target int) int {
	if !c.Known {
		return unknownDistance
	}
	d := c.Value - target
	if d < 0 {
		return -d
	}
	return d
}

// FilterAndRank drops known items above target*flexibility, keeps every
// unknown item, and orders the rest by distance to target. Ties keep their
// retrieval order.
func FilterAndRank(items []models.FoodCandidate, target int, flexibility float64) []models.FoodCandidate {
	limit := float64(target) * flexibility
	kept := make([]models.FoodCandidate, 0, len(items))
	for _, it := range items {
		if it.Calories.Known && float64(it.Calories.Value) > limit {
			continue
		}
		kept = append(kept, it)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return Distance(kept[i].Calories, target) < Distance(kept[j].Calories, target)
	})
	return kept
}
