package search

import (
	"strings"
	"unicode/utf8"
)

// Highlight wraps each occurrence of a query word (three letters or more) in
// ** markers and truncates the result to about maxLen runes.
func Highlight(content, query string, maxLen int) string {
	text := content
	if maxLen > 0 && utf8.RuneCountInString(text) > maxLen {
		text = string([]rune(text)[:maxLen]) + "..."
	}
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		return text
	}
	var spans [][2]int
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) < 3 {
			continue
		}
		for from := 0; ; {
			i := strings.Index(lower[from:], word)
			if i < 0 {
				break
			}
			start := from + i
			spans = append(spans, [2]int{start, start + len(word)})
			from = start + len(word)
		}
	}
	if len(spans) == 0 {
		return text
	}
	spans = mergeSpans(spans)

	var b strings.Builder
	last := 0
	for _, s := range spans {
		b.WriteString(text[last:s[0]])
		b.WriteString("**")
		b.WriteString(text[s[0]:s[1]])
		b.WriteString("**")
		last = s[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// mergeSpans sorts spans and joins overlapping ones.
func mergeSpans(spans [][2]int) [][2]int {
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j][0] < spans[j-1][0]; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s[0] <= last[1] {
			if s[1] > last[1] {
				last[1] = s[1]
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
