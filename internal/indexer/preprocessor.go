package indexer

import "strings"

// Preprocess collapses runs of whitespace, including newlines from
// multi-line cells, into single spaces.
func Preprocess(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
