package models

import "errors"

var (
	// ErrGeneration marks a failed or timed-out text generation call. Fatal for the request.
	ErrGeneration = errors.New("meal plan generation failed")
	// ErrCorpusUnavailable marks a failed corpus search. Retrieval recovers from it.
	ErrCorpusUnavailable = errors.New("food corpus unavailable")
	// ErrNotFound is returned by storage lookups for missing food documents.
	ErrNotFound = errors.New("not found")
)
