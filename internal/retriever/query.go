package retriever

import (
	"strings"

	"github.com/hyperjump/kondate/internal/models"
)

// defaultQueryTerms is the number of slot keywords used when no preference is given.
const defaultQueryTerms = 3

var slotKeywords = [len(models.MealSlots)][]string{
	models.Breakfast: {"breakfast", "morning", "eggs", "cereal", "toast", "coffee", "juice", "oatmeal", "yogurt", "fruit"},
	models.Lunch:     {"lunch", "sandwich", "salad", "soup", "wrap", "pasta", "rice", "chicken", "beef", "fish", "vegetable"},
	models.Dinner:    {"dinner", "evening", "meat", "chicken", "beef", "fish", "pasta", "rice", "vegetable", "stew", "grill"},
	models.Snacks:    {"snack", "nuts", "fruit", "chips", "cookies", "yogurt", "cheese", "crackers", "popcorn", "candy"},
}

// Keywords returns the default search terms for slot.
func Keywords(slot models.MealSlot) []string {
	return append([]string(nil), slotKeywords[slot]...)
}

// BuildQuery returns "<preference> <slot>" when the caller asked for something
// specific, otherwise the first few default keywords of the slot.
func BuildQuery(slot models.MealSlot, mealRequests map[models.MealSlot]string) string {
	if pref := strings.TrimSpace(mealRequests[slot]); pref != "" {
		return pref + " " + slot.String()
	}
	terms := slotKeywords[slot]
	if len(terms) > defaultQueryTerms {
		terms = terms[:defaultQueryTerms]
	}
	return strings.Join(terms, " ")
}
