package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// MealAllocation is the calorie share assigned to one slot.
type MealAllocation struct {
	Calories   int     `json:"calories"`
	Percentage float64 `json:"percentage"`
}

// MealAllocations holds one allocation per slot, indexed by MealSlot.
type MealAllocations [len(MealSlots)]MealAllocation

// Get returns the allocation for slot.
func (a MealAllocations) Get(slot MealSlot) MealAllocation {
	return a[slot]
}

// Total sums calories over all slots.
func (a MealAllocations) Total() int {
	total := 0
	for _, m := range a {
		total += m.Calories
	}
	return total
}

// MarshalJSON encodes the allocations as an object keyed by slot name.
func (a MealAllocations) MarshalJSON() ([]byte, error) {
	m := make(map[string]MealAllocation, len(a))
	for _, s := range MealSlots {
		m[s.String()] = a[s]
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes an object keyed by slot name; unknown keys are ignored.
func (a *MealAllocations) UnmarshalJSON(data []byte) error {
	var m map[string]MealAllocation
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out MealAllocations
	for key, alloc := range m {
		if slot, err := ParseMealSlot(key); err == nil {
			out[slot] = alloc
		}
	}
	*a = out
	return nil
}

// CaloricPlan is the per-slot calorie allocation for a single day after redistribution.
type CaloricPlan struct {
	Meals            MealAllocations `json:"meals"`
	ConsumedCalories int             `json:"consumed_calories"`
	RemainingTarget  int             `json:"remaining_target"`
	RemainingMeals   []MealSlot      `json:"remaining_meals"`
}

// Allocation returns the allocation for slot.
func (p CaloricPlan) Allocation(slot MealSlot) MealAllocation {
	return p.Meals[slot]
}

// Remaining reports whether slot still needs planning.
func (p CaloricPlan) Remaining(slot MealSlot) bool {
	for _, s := range p.RemainingMeals {
		if s == slot {
			return true
		}
	}
	return false
}

// Calories is a calorie estimate that may be unknown.
type Calories struct {
	Value int
	Known bool
}

// KnownCalories returns a known estimate of n kcal.
func KnownCalories(n int) Calories {
	return Calories{Value: n, Known: true}
}

// UnknownCalories is the sentinel for items without a readable calorie figure.
var UnknownCalories = Calories{}

// String returns "N kcal" or "unknown".
func (c Calories) String() string {
	if !c.Known {
		return "unknown"
	}
	return fmt.Sprintf("%d kcal", c.Value)
}

// MarshalJSON encodes known values as a number and unknown as the string "unknown".
func (c Calories) MarshalJSON() ([]byte, error) {
	if !c.Known {
		return []byte(`"unknown"`), nil
	}
	return []byte(strconv.Itoa(c.Value)), nil
}

// UnmarshalJSON accepts an integer or the string "unknown".
func (c *Calories) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = KnownCalories(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("calories must be an integer or \"unknown\": %w", err)
	}
	*c = UnknownCalories
	return nil
}

// FoodCandidate is one retrieved item considered for a slot. Created per retrieval, never persisted.
type FoodCandidate struct {
	Content     string   `json:"content"`
	Calories    Calories `json:"calories"`
	MealType    MealSlot `json:"meal_type"`
	SearchQuery string   `json:"search_query"`
}

// Totals are the deterministic plan totals recomputed from the generated text.
type Totals struct {
	TotalRemaining int `json:"total_remaining"`
	GrandTotal     int `json:"grand_total"`
	Target         int `json:"target"`
	Difference     int `json:"difference"`
}

// PlanResult is the full output of one planning request.
type PlanResult struct {
	ParsedInput ParsedInput                  `json:"parsed_input"`
	CaloricPlan CaloricPlan                  `json:"caloric_plan"`
	Candidates  map[MealSlot][]FoodCandidate `json:"candidates"`
	MealPlan    string                       `json:"meal_plan"`
	Subtotals   map[MealSlot]int             `json:"subtotals"`
	Totals      Totals                       `json:"totals"`
	Notes       []string                     `json:"notes,omitempty"`
}

// AssembledPlan is the generated plan text with its recomputed numbers.
type AssembledPlan struct {
	// Text is the raw generated plan followed by the totals block.
	Text      string           `json:"text"`
	Subtotals map[MealSlot]int `json:"subtotals"`
	Totals    Totals           `json:"totals"`
	Notes     []string         `json:"notes,omitempty"`
}
