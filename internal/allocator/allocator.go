// Package allocator splits a daily calorie target across meal slots and
// redistributes what is left once some meals have been eaten.
package allocator

import "github.com/hyperjump/kondate/internal/models"

// Default distribution weights in basis points (1/100 of a percent). They sum to 10000.
const (
	BreakfastWeight = 2000
	LunchWeight     = 3500
	DinnerWeight    = 3500
	SnacksWeight    = 1000

	weightScale = 10000
)

var weights = [len(models.MealSlots)]int{
	models.Breakfast: BreakfastWeight,
	models.Lunch:     LunchWeight,
	models.Dinner:    DinnerWeight,
	models.Snacks:    SnacksWeight,
}

// Weight returns the default share of slot as a fraction of the day (0.20 for breakfast).
func Weight(slot models.MealSlot) float64 {
	return float64(weights[slot]) / weightScale
}

// AllocateBase splits target across all four slots with the default weights.
// Calories are floored; negative targets are treated as 0.
func AllocateBase(target int) models.MealAllocations {
	target = max(0, target)
	var out models.MealAllocations
	for _, s := range models.MealSlots {
		out[s] = models.MealAllocation{
			Calories:   share(target, weights[s], weightScale),
			Percentage: float64(weights[s]) / 100,
		}
	}
	return out
}

// AllocateRemaining builds the caloric plan for a day in which the slots with
// a non-empty entry in alreadyEaten are consumed. Consumed calories are
// estimated from the default weights, not from any logged figure.
func AllocateRemaining(target int, alreadyEaten map[models.MealSlot][]string) models.CaloricPlan {
	target = max(0, target)

	plan := models.CaloricPlan{RemainingMeals: []models.MealSlot{}}
	remainingWeight := 0
	for _, s := range models.MealSlots {
		if len(alreadyEaten[s]) > 0 {
			plan.ConsumedCalories += share(target, weights[s], weightScale)
			continue
		}
		plan.RemainingMeals = append(plan.RemainingMeals, s)
		remainingWeight += weights[s]
	}
	plan.RemainingTarget = max(0, target-plan.ConsumedCalories)

	// Consumed slots keep the zero value.
	if len(plan.RemainingMeals) == 0 || plan.RemainingTarget == 0 {
		return plan
	}
	for _, s := range plan.RemainingMeals {
		cal := share(plan.RemainingTarget, weights[s], remainingWeight)
		plan.Meals[s] = models.MealAllocation{
			Calories:   cal,
			Percentage: percentage(cal, target),
		}
	}
	return plan
}

// share returns floor(total * w / of) in integer arithmetic.
func share(total, w, of int) int {
	if of == 0 {
		return 0
	}
	return total * w / of
}

func percentage(calories, target int) float64 {
	if target <= 0 {
		return 0
	}
	return float64(calories) / float64(target) * 100
}
