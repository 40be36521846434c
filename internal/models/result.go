package models

// SearchResult represents a single food hit with document and scores.
type SearchResult struct {
	Document      *FoodDocument     `json:"document"`
	Score         float64           `json:"score"`
	KeywordScore  float64           `json:"keyword_score"`
	SemanticScore float64           `json:"semantic_score"`
	Highlights    map[string]string `json:"highlights,omitempty"`
	Rank          int               `json:"rank"`
}

// SearchResponse is the response for a corpus search. Results are fused and ordered by score.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
}

// CorpusHit is one document returned to the planner by the corpus collaborator.
type CorpusHit struct {
	ID    string  `json:"id,omitempty"`
	Text  string  `json:"text"`
	Score float64 `json:"score,omitempty"`
}
