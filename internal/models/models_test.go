package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   *SearchQuery
		wantErr bool
	}{
		{"empty query", &SearchQuery{Query: ""}, true},
		{"valid query", &SearchQuery{Query: "oatmeal"}, false},
		{"sets default limit", &SearchQuery{Query: "x", Limit: 0}, false},
		{"caps limit at 100", &SearchQuery{Query: "x", Limit: 200}, false},
		{"normalizes category", &SearchQuery{Query: "x", Category: "Snack"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.query.Limit == 0 || tt.query.Limit > 100 {
				t.Errorf("limit not normalized: %d", tt.query.Limit)
			}
			if !tt.query.KeywordEnabled || !tt.query.SemanticEnabled {
				t.Error("expected both keyword and semantic enabled when both were false")
			}
			if tt.name == "normalizes category" && tt.query.Category != "snacks" {
				t.Errorf("category = %q, want snacks", tt.query.Category)
			}
		})
	}
}

func TestParseMealSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    MealSlot
		wantErr bool
	}{
		{"breakfast", Breakfast, false},
		{" LUNCH ", Lunch, false},
		{"Dinner", Dinner, false},
		{"snacks", Snacks, false},
		{"brunch", 0, true},
		{"total_calories_consumed", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMealSlot(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMealSlot(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMealSlot(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMealSlot_Names(t *testing.T) {
	if Breakfast.Title() != "Breakfast" || Snacks.Upper() != "SNACKS" {
		t.Errorf("unexpected names: %q %q", Breakfast.Title(), Snacks.Upper())
	}
	if got := JoinTitles([]MealSlot{Lunch, Dinner}); got != "Lunch, Dinner" {
		t.Errorf("JoinTitles = %q", got)
	}
	if MealSlot(9).Valid() {
		t.Error("slot 9 should be invalid")
	}
}

func TestParsedInput_UnmarshalJSON(t *testing.T) {
	raw := `{
		"already_eaten": {"breakfast": ["eggs", "toast"], "lunch": null, "dinner": [], "snacks": "apple", "total_calories_consumed": 350},
		"meal_requests": {"dinner": "salmon", "lunch": null, "brunch": "waffles"},
		"meals_to_plan": ["lunch", "dinner", "elevenses"],
		"user_intent": "plan the rest of my day"
	}`
	var p ParsedInput
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatal(err)
	}
	if !p.Eaten(Breakfast) || !p.Eaten(Snacks) {
		t.Errorf("breakfast and snacks should be eaten: %+v", p.AlreadyEaten)
	}
	if p.Eaten(Lunch) || p.Eaten(Dinner) {
		t.Errorf("null and empty lists must not count as eaten: %+v", p.AlreadyEaten)
	}
	if p.Request(Dinner) != "salmon" || p.Request(Lunch) != "" {
		t.Errorf("unexpected requests: %+v", p.MealRequests)
	}
	if len(p.MealsToPlan) != 2 {
		t.Errorf("MealsToPlan = %v, want 2 known slots", p.MealsToPlan)
	}
	if p.UserIntent != "plan the rest of my day" {
		t.Errorf("UserIntent = %q", p.UserIntent)
	}
	if got := p.EatenSlots(); len(got) != 2 || got[0] != Breakfast || got[1] != Snacks {
		t.Errorf("EatenSlots = %v", got)
	}
}

func TestParsedInput_UnmarshalJSON_Empty(t *testing.T) {
	var p ParsedInput
	if err := json.Unmarshal([]byte(`{}`), &p); err != nil {
		t.Fatal(err)
	}
	for _, s := range MealSlots {
		if p.Eaten(s) {
			t.Errorf("%s eaten on empty input", s)
		}
	}
}

func TestEatenItems_UnmarshalJSON(t *testing.T) {
	var e EatenItems
	raw := `{"breakfast": ["eggs"], "lunch": null, "dinner": "pasta", "total_calories_consumed": 0}`
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatal(err)
	}
	if len(e) != 2 || len(e[Breakfast]) != 1 || len(e[Dinner]) != 1 {
		t.Errorf("EatenItems = %+v, want breakfast and dinner", e)
	}
	if err := json.Unmarshal([]byte(`"eggs"`), &e); err == nil {
		t.Error("a non-object already_eaten should fail to decode")
	}
}

func TestCalories_JSON(t *testing.T) {
	c := FoodCandidate{Content: "Apple", Calories: UnknownCalories, MealType: Snacks}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"calories":"unknown"`) || !strings.Contains(string(data), `"meal_type":"snacks"`) {
		t.Errorf("unexpected JSON: %s", data)
	}

	var got Calories
	if err := json.Unmarshal([]byte(`140`), &got); err != nil {
		t.Fatal(err)
	}
	if got != KnownCalories(140) {
		t.Errorf("got %+v", got)
	}
	if err := json.Unmarshal([]byte(`"unknown"`), &got); err != nil {
		t.Fatal(err)
	}
	if got.Known {
		t.Error("expected unknown")
	}
}

func TestCaloricPlan_JSON(t *testing.T) {
	plan := CaloricPlan{RemainingMeals: []MealSlot{Lunch}}
	plan.Meals[Lunch] = MealAllocation{Calories: 700, Percentage: 35}
	data, err := json.Marshal(plan)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"lunch":{"calories":700,"percentage":35}`) || !strings.Contains(s, `"remaining_meals":["lunch"]`) {
		t.Errorf("unexpected JSON: %s", s)
	}
}

func TestFormatContent(t *testing.T) {
	got := FormatContent("Oatmeal", "breakfast", "1 cup cooked", 150)
	want := "Oatmeal - Category: breakfast, Serving: 1 cup cooked, Calories: 150 kcal"
	if got != want {
		t.Errorf("FormatContent = %q, want %q", got, want)
	}
	in := FoodInput{Name: "Trail Mix", Category: "Snacks", ServingSize: "1/4 cup", Calories: 150}
	if !strings.HasPrefix(in.Text(), "Trail Mix - Category: snacks") {
		t.Errorf("Text = %q", in.Text())
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := map[string]string{
		"Breakfast": "breakfast",
		`"Dinner"`:  "dinner",
		"Snack":     "snacks",
		"Desserts":  "other",
		"":          "other",
	}
	for in, want := range tests {
		if got := NormalizeCategory(in); got != want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}
