package assembler

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/hyperjump/kondate/internal/models"
)

var (
	headerPattern   = regexp.MustCompile(`\b(BREAKFAST|LUNCH|DINNER|SNACKS)\b`)
	subtotalPattern = regexp.MustCompile(`Subtotal:\s*\**\s*(\d+)\s*kcal`)
)

type marker struct {
	pos      int
	header   bool
	slot     models.MealSlot
	calories int
}

// ExtractSubtotals scans generated plan text line by line. A slot header
// (upper-case slot word anywhere, or a heading line holding only the slot
// name in any case) sets the current section. Each
// "Subtotal: N kcal" is assigned to the nearest preceding header; a later
// subtotal in the same section replaces an earlier one. Subtotals before the
// first header are dropped. Every slot is present in the result, 0 when missing.
func ExtractSubtotals(text string) map[models.MealSlot]int {
	out := make(map[models.MealSlot]int, len(models.MealSlots))
	for _, s := range models.MealSlots {
		out[s] = 0
	}

	current := models.MealSlot(-1)
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		for _, m := range lineMarkers(sc.Text()) {
			switch {
			case m.header:
				current = m.slot
			case current.Valid():
				out[current] = m.calories
			}
		}
	}
	return out
}

// lineMarkers returns the headers and subtotals of one line in position order.
func lineMarkers(line string) []marker {
	var markers []marker
	if slot, ok := leadingSlot(line); ok {
		markers = append(markers, marker{pos: -1, header: true, slot: slot})
	}
	for _, loc := range headerPattern.FindAllStringIndex(line, -1) {
		slot, err := models.ParseMealSlot(line[loc[0]:loc[1]])
		if err != nil {
			continue
		}
		markers = append(markers, marker{pos: loc[0], header: true, slot: slot})
	}
	for _, loc := range subtotalPattern.FindAllStringSubmatchIndex(line, -1) {
		n, err := strconv.Atoi(line[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		markers = append(markers, marker{pos: loc[0], calories: n})
	}
	sort.SliceStable(markers, func(i, j int) bool { return markers[i].pos < markers[j].pos })
	return markers
}

// leadingSlot matches heading lines such as "## Lunch (700 kcal target)",
// "**Snacks:**" or "Dinner:". Only a heading prefix may come before the slot
// name, and nothing but punctuation or a parenthesized note after it, so
// items like "* Breakfast Burrito - 450 kcal" never open a section.
func leadingSlot(line string) (models.MealSlot, bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "#"):
		trimmed = strings.TrimLeft(trimmed, "# ")
	case strings.HasPrefix(trimmed, "**"):
		trimmed = strings.TrimLeft(trimmed, "* ")
	}
	lower := strings.ToLower(trimmed)
	for _, s := range models.MealSlots {
		name := s.String()
		if strings.HasPrefix(lower, name) && headingTail(trimmed[len(name):]) {
			return s, true
		}
	}
	return 0, false
}

// headingTail reports whether rest holds no words outside one parenthesized note.
func headingTail(rest string) bool {
	if i := strings.IndexByte(rest, '('); i >= 0 {
		if j := strings.LastIndexByte(rest, ')'); j > i {
			rest = rest[:i] + rest[j+1:]
		}
	}
	return strings.IndexFunc(rest, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) < 0
}

// ComputeTotals sums the subtotals of the meals that still needed planning and
// compares the day against target.
func ComputeTotals(subtotals map[models.MealSlot]int, plan models.CaloricPlan, target int) models.Totals {
	remaining := 0
	for _, s := range plan.RemainingMeals {
		remaining += subtotals[s]
	}
	grand := plan.ConsumedCalories + remaining
	return models.Totals{
		TotalRemaining: remaining,
		GrandTotal:     grand,
		Target:         target,
		Difference:     grand - target,
	}
}

// TotalsBlock renders the totals appended to every plan.
func TotalsBlock(t models.Totals) string {
	var b strings.Builder
	b.WriteString("**DAILY TOTALS:**\n")
	fmt.Fprintf(&b, "• Total of the suggestion: %d kcal\n", t.TotalRemaining)
	fmt.Fprintf(&b, "• Grand Total: %d kcal (%s)\n", t.GrandTotal, differenceText(t.Difference))
	fmt.Fprintf(&b, "• Target: %d kcal\n", t.Target)
	fmt.Fprintf(&b, "• Difference: %s kcal", signed(t.Difference))
	return b.String()
}

func differenceText(d int) string {
	switch {
	case d > 0:
		return fmt.Sprintf("+%d over target", d)
	case d < 0:
		return fmt.Sprintf("%d under target", -d)
	default:
		return "exactly on target"
	}
}

func signed(d int) string {
	if d > 0 {
		return "+" + strconv.Itoa(d)
	}
	return strconv.Itoa(d)
}
