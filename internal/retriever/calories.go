package retriever

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperjump/kondate/internal/models"
)

var (
	explicitCaloriesRe = regexp.MustCompile(`(\d+)\s*(?:kcal|cal|calories)`)
	bareNumberRe       = regexp.MustCompile(`\b(\d{2,4})\b`)
)

const (
	minBareCalories = 50
	maxBareCalories = 2000
)

// ExtractCalories reads a calorie estimate from free text. An explicit
// "<n> kcal|cal|calories" wins; otherwise the first standalone 2-4 digit
// number in [50, 2000] is used; otherwise the result is unknown. An explicit
// figure never falls back to the bare-number rule.
func ExtractCalories(text string) models.Calories {
	if m := explicitCaloriesRe.FindStringSubmatch(strings.ToLower(text)); m != nil {
		// An explicit figure too large for int is clamped to the int maximum by
		// Atoi and kept as known, so ranking filters it out as over target.
		if n, err := strconv.Atoi(m[1]); err == nil || errors.Is(err, strconv.ErrRange) {
			return models.KnownCalories(n)
		}
	}
	for _, m := range bareNumberRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n >= minBareCalories && n <= maxBareCalories {
			return models.KnownCalories(n)
		}
	}
	return models.UnknownCalories
}
