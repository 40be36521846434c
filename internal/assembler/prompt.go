package assembler

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/hyperjump/kondate/internal/models"
)

// DefaultCandidatesPerSlot is how many ranked candidates per slot are shown to the generator.
const DefaultCandidatesPerSlot = 4

// PromptInput is everything the prompt is rendered from.
type PromptInput struct {
	Profile    models.UserProfile
	Input      models.ParsedInput
	Plan       models.CaloricPlan
	Candidates map[models.MealSlot][]models.FoodCandidate
	// CandidatesPerSlot caps the listing per slot. Zero means DefaultCandidatesPerSlot.
	CandidatesPerSlot int
}

var promptTemplate = template.Must(template.New("meal_plan").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`You are creating a meal plan. Use ONLY the provided meal items.

USER PROFILE:
- Target Calories: {{.Target}} kcal/day
- Already consumed: {{.Consumed}} kcal
- Remaining target: {{.Remaining}} kcal

CONTEXT:
User request: {{.Intent}}
Meals already eaten: {{.MealsEaten}}
Meals to plan: {{.MealsToPlan}}

CALORIC TARGETS FOR REMAINING MEALS:
{{range .Sections}}{{.Title}}: {{.Calories}} kcal
{{end}}
AVAILABLE MEAL ITEMS:
{{range .Sections}}
{{.Upper}} OPTIONS:
{{if .Candidates}}{{range $i, $c := .Candidates}}{{inc $i}}. {{$c}}
{{end}}{{else}}(no options found)
{{end}}{{end}}
INSTRUCTIONS:
1. Create a meal plan using ONLY the provided meal items
2. Focus on the meals that need to be planned (ignore already eaten meals)
3. Try to match the caloric targets as closely as possible
4. If user requested specific items, prioritize those
5. Provide realistic portion sizes
6. Calculate subtotals for each meal

OUTPUT FORMAT:
**MEAL PLAN FOR TODAY**
{{if gt .Consumed 0}}
✅ **Already Consumed: {{.Consumed}} kcal**
{{range .ConsumedLines}}{{.}}
{{end}}{{end}}
{{range .Sections}}**{{.Upper}} ({{.Calories}} kcal target):**
• [List items with calories]
Subtotal: [Calculate subtotal] kcal

{{end}}**NOTES:**
[Brief explanation of choices made]

DO NOT include daily totals or grand totals - these will be calculated automatically.
`))

type promptSection struct {
	Title      string
	Upper      string
	Calories   int
	Candidates []string
}

type promptView struct {
	Target        int
	Consumed      int
	Remaining     int
	Intent        string
	MealsEaten    string
	MealsToPlan   string
	Sections      []promptSection
	ConsumedLines []string
}

// BuildPrompt renders the generation prompt. Each meal still to plan gets a
// target line, a candidate listing and an output section, even when its
// allocation is zero.
func BuildPrompt(in PromptInput) (string, error) {
	limit := in.CandidatesPerSlot
	if limit <= 0 {
		limit = DefaultCandidatesPerSlot
	}

	view := promptView{
		Target:      in.Profile.TargetCalories,
		Consumed:    in.Plan.ConsumedCalories,
		Remaining:   in.Plan.RemainingTarget,
		Intent:      in.Input.UserIntent,
		MealsEaten:  "None",
		MealsToPlan: models.JoinTitles(in.Plan.RemainingMeals),
	}
	if eaten := in.Input.EatenSlots(); len(eaten) > 0 {
		view.MealsEaten = models.JoinTitles(eaten)
		for _, s := range eaten {
			view.ConsumedLines = append(view.ConsumedLines,
				fmt.Sprintf("• %s: %s", s.Title(), strings.Join(in.Input.AlreadyEaten[s], ", ")))
		}
	} else {
		view.ConsumedLines = []string{"• No meals consumed yet"}
	}

	for _, s := range in.Plan.RemainingMeals {
		section := promptSection{Title: s.Title(), Upper: s.Upper(), Calories: in.Plan.Meals[s].Calories}
		for i, c := range in.Candidates[s] {
			if i == limit {
				break
			}
			section.Candidates = append(section.Candidates, c.Content)
		}
		view.Sections = append(view.Sections, section)
	}

	var b strings.Builder
	if err := promptTemplate.Execute(&b, view); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}
