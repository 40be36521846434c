package ingest

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/kondate/internal/models"
	"github.com/hyperjump/kondate/internal/retriever"
)

var (
	bulletRe   = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s+`)
	categoryRe = regexp.MustCompile(`(?i)category:\s*([a-z]+)`)
)

// sectionCategory returns the slot named by a heading line such as
// "Breakfast", "## Lunch" or "**DINNER:**".
func sectionCategory(line string) (string, bool) {
	s := strings.Trim(line, "#*_ \t:")
	if s == "" || len(s) > len("breakfast") {
		return "", false
	}
	c := models.NormalizeCategory(s)
	if c == models.CategoryOther {
		return "", false
	}
	return c, true
}

// itemName cuts a food line at its first separator.
func itemName(line string) string {
	end := len(line)
	for _, sep := range []string{" - ", " – ", ",", ":", "(", "\t"} {
		if i := strings.Index(line, sep); i > 0 && i < end {
			end = i
		}
	}
	return strings.TrimSpace(line[:end])
}

// parseLines turns each non-heading line of text into one food input.
func parseLines(text string) []*models.FoodInput {
	category := models.CategoryOther
	var foods []*models.FoodInput
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if c, ok := sectionCategory(line); ok {
			category = c
			continue
		}
		line = bulletRe.ReplaceAllString(line, "")
		name := itemName(line)
		if name == "" {
			continue
		}

		itemCategory := category
		content := line
		if m := categoryRe.FindStringSubmatch(line); m != nil {
			itemCategory = models.NormalizeCategory(m[1])
		} else {
			content = line + " - Category: " + itemCategory
		}
		calories := 0
		if c := retriever.ExtractCalories(line); c.Known {
			calories = c.Value
		}
		foods = append(foods, &models.FoodInput{
			Name:     name,
			Category: itemCategory,
			Calories: calories,
			Content:  content,
		})
	}
	return foods
}

// extractPlain returns content as text, replacing invalid UTF-8 sequences.
func extractPlain(content []byte) string {
	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\ufffd")
	}
	return strings.ReplaceAll(text, "\r\n", "\n")
}
