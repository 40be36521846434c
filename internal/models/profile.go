package models

import (
	"encoding/json"
	"strings"
)

// UserProfile is the per-request user record. Only TargetCalories feeds the planning math.
type UserProfile struct {
	TargetCalories int     `json:"target_calories" validate:"required,gt=0"`
	BMI            float64 `json:"bmi,omitempty" validate:"omitempty,gte=0"`
	Category       string  `json:"category,omitempty"`
	BMR            float64 `json:"bmr,omitempty" validate:"omitempty,gte=0"`
	TDEE           float64 `json:"tdee,omitempty" validate:"omitempty,gte=0"`
	Goals          string  `json:"goals,omitempty"`
}

// DefaultUserProfile returns the profile used when a caller supplies none.
func DefaultUserProfile() UserProfile {
	return UserProfile{
		TargetCalories: 2000,
		BMI:            22.0,
		Category:       "Normal weight",
		BMR:            1800,
		TDEE:           2200,
		Goals:          "maintain weight",
	}
}

// ParsedInput is the structured form of one planning request, produced upstream.
type ParsedInput struct {
	// AlreadyEaten maps a slot to the items eaten for it. A non-empty list marks the slot consumed.
	AlreadyEaten map[MealSlot][]string `json:"already_eaten"`
	MealRequests map[MealSlot]string   `json:"meal_requests"`
	// MealsToPlan is advisory; the allocator recomputes it.
	MealsToPlan []MealSlot `json:"meals_to_plan"`
	UserIntent  string     `json:"user_intent"`
}

// Eaten reports whether slot is marked consumed.
func (p ParsedInput) Eaten(slot MealSlot) bool {
	return len(p.AlreadyEaten[slot]) > 0
}

// Request returns the trimmed free-text preference for slot, or "".
func (p ParsedInput) Request(slot MealSlot) string {
	return strings.TrimSpace(p.MealRequests[slot])
}

// EatenSlots returns the consumed slots in canonical order.
func (p ParsedInput) EatenSlots() []MealSlot {
	var slots []MealSlot
	for _, s := range MealSlots {
		if p.Eaten(s) {
			slots = append(slots, s)
		}
	}
	return slots
}

// UnmarshalJSON decodes a parsed request leniently. Unknown slot keys, null
// values and malformed entries are dropped instead of failing the request.
func (p *ParsedInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		AlreadyEaten EatenItems                 `json:"already_eaten"`
		MealRequests map[string]json.RawMessage `json:"meal_requests"`
		MealsToPlan  []json.RawMessage          `json:"meals_to_plan"`
		UserIntent   json.RawMessage            `json:"user_intent"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := ParsedInput{
		AlreadyEaten: raw.AlreadyEaten,
		MealRequests: make(map[MealSlot]string),
	}
	if out.AlreadyEaten == nil {
		out.AlreadyEaten = make(map[MealSlot][]string)
	}
	for key, val := range raw.MealRequests {
		slot, err := ParseMealSlot(key)
		if err != nil {
			continue
		}
		var pref string
		if json.Unmarshal(val, &pref) == nil && strings.TrimSpace(pref) != "" {
			out.MealRequests[slot] = pref
		}
	}
	for _, val := range raw.MealsToPlan {
		var name string
		if json.Unmarshal(val, &name) != nil {
			continue
		}
		if slot, err := ParseMealSlot(name); err == nil {
			out.MealsToPlan = append(out.MealsToPlan, slot)
		}
	}
	if len(raw.UserIntent) > 0 {
		_ = json.Unmarshal(raw.UserIntent, &out.UserIntent)
	}

	*p = out
	return nil
}

// EatenItems maps meal slots to the items already eaten in them. It decodes
// the already_eaten object the same lenient way ParsedInput does, so keys
// such as total_calories_consumed are ignored.
type EatenItems map[MealSlot][]string

func (e *EatenItems) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(EatenItems, len(raw))
	for key, val := range raw {
		slot, err := ParseMealSlot(key)
		if err != nil {
			continue
		}
		if items := decodeItems(val); len(items) > 0 {
			out[slot] = items
		}
	}
	*e = out
	return nil
}

// decodeItems accepts a list of strings or a single string; anything else is treated as not eaten.
func decodeItems(val json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(val, &list); err == nil {
		return list
	}
	var generic []any
	if err := json.Unmarshal(val, &generic); err == nil && len(generic) > 0 {
		items := make([]string, 0, len(generic))
		for _, g := range generic {
			if s, ok := g.(string); ok {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			// eaten, but without readable descriptions
			items = append(items, "unspecified")
		}
		return items
	}
	var single string
	if err := json.Unmarshal(val, &single); err == nil && strings.TrimSpace(single) != "" {
		return []string{single}
	}
	return nil
}
