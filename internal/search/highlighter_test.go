package search

import "testing"

func TestHighlight(t *testing.T) {
	tests := []struct {
		name, content, query string
		maxLen               int
		want                 string
	}{
		{"no match", "Oatmeal - Category: breakfast", "salmon", 0, "Oatmeal - Category: breakfast"},
		{"case insensitive", "Grilled Salmon - Category: dinner", "salmon", 0, "Grilled **Salmon** - Category: dinner"},
		{"short words ignored", "Tea - Category: breakfast", "tea of", 0, "**Tea** - Category: breakfast"},
		{"repeated", "Egg salad, egg wrap", "egg", 0, "**Egg** salad, **egg** wrap"},
		{"overlapping", "Oatmeal", "oat oatmeal", 0, "**Oatmeal**"},
		{"truncated", "Scrambled Eggs - Category: breakfast", "eggs", 14, "Scrambled **Eggs**..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Highlight(tt.content, tt.query, tt.maxLen); got != tt.want {
				t.Errorf("Highlight = %q, want %q", got, tt.want)
			}
		})
	}
}
