package models

import (
	"fmt"
	"strings"
	"time"
)

// FoodDocument is a stored food corpus entry. Calories of 0 means the figure is unknown.
type FoodDocument struct {
	ID          string                 `json:"id" db:"id"`
	Name        string                 `json:"name" db:"name"`
	Category    string                 `json:"category" db:"category"`
	ServingSize string                 `json:"serving_size,omitempty" db:"serving_size"`
	Calories    int                    `json:"calories,omitempty" db:"calories"`
	Content     string                 `json:"content" db:"content"`
	Source      string                 `json:"source,omitempty" db:"source"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at" db:"updated_at"`
}

// FoodInput is the input for creating or updating a food document.
type FoodInput struct {
	ID          string                 `json:"id,omitempty"`
	Name        string                 `json:"name" validate:"required"`
	Category    string                 `json:"category,omitempty"`
	ServingSize string                 `json:"serving_size,omitempty"`
	Calories    int                    `json:"calories,omitempty" validate:"gte=0"`
	Content     string                 `json:"content,omitempty"`
	Source      string                 `json:"source,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// CategoryOther is the category of items that map to no meal slot.
const CategoryOther = "other"

// NormalizeCategory maps a free-form category to a slot name, or "other".
func NormalizeCategory(category string) string {
	c := strings.Trim(strings.TrimSpace(category), `"`)
	if slot, err := ParseMealSlot(c); err == nil {
		return slot.String()
	}
	if strings.EqualFold(c, "snack") {
		return Snacks.String()
	}
	return CategoryOther
}

// FormatContent renders the searchable text of a food item:
// "Oatmeal - Category: breakfast, Serving: 1 cup cooked, Calories: 150 kcal".
func FormatContent(name, category, serving string, calories int) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(name))
	fmt.Fprintf(&b, " - Category: %s", category)
	if serving != "" {
		fmt.Fprintf(&b, ", Serving: %s", serving)
	}
	if calories > 0 {
		fmt.Fprintf(&b, ", Calories: %d kcal", calories)
	}
	return b.String()
}

// Text returns the content to index, composing it from the fields when Content is empty.
func (in *FoodInput) Text() string {
	if strings.TrimSpace(in.Content) != "" {
		return in.Content
	}
	return FormatContent(in.Name, NormalizeCategory(in.Category), in.ServingSize, in.Calories)
}
