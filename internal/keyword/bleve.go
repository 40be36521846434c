package keyword

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	kwanalyzer "github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/kondate/internal/models"
)

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// foodEntry is the indexed form of a food document.
type foodEntry struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

func foodMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer: lowercase and tokenize without stemming.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("name", textFieldMapping)
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	categoryMapping := bleve.NewTextFieldMapping()
	categoryMapping.Analyzer = kwanalyzer.Name
	docMapping.AddFieldMappingsAt("category", categoryMapping)
	im.AddDocumentMapping("food", docMapping)
	im.DefaultType = "food"
	im.DefaultMapping = docMapping
	return im
}

// NewBleveIndex creates or opens a Bleve index at path.
// An existing index is reopened as is; remove the directory after changing the mapping.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, foodMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// NewMemoryBleveIndex creates an in-memory index with the same mapping.
func NewMemoryBleveIndex() (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(foodMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes a food document by its ID.
func (b *BleveIndex) Index(ctx context.Context, doc *models.FoodDocument) error {
	return b.index.Index(doc.ID, foodEntry{
		Name:     doc.Name,
		Content:  doc.Content,
		Category: doc.Category,
	})
}

// Search matches query against the name and content fields and returns up
// to limit hits ordered by score. Name matches are boosted by opts.NameBoost.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordResult, error) {
	nameBoost := 1.0
	fuzziness := 0
	category := ""
	if opts != nil {
		if opts.NameBoost > 0 {
			nameBoost = opts.NameBoost
		}
		if opts.FuzzyEnabled {
			fuzziness = opts.Fuzziness
			if fuzziness <= 0 {
				fuzziness = 1
			}
		}
		category = opts.Category
	}

	var q blevequery.Query = bleve.NewDisjunctionQuery(
		fieldQuery(query, "name", nameBoost, fuzziness),
		fieldQuery(query, "content", 1.0, fuzziness),
	)
	if category != "" {
		cq := bleve.NewTermQuery(category)
		cq.SetField("category")
		q = bleve.NewConjunctionQuery(q, cq)
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// fieldQuery builds a match query on field, or a disjunction of fuzzy term
// queries when fuzziness is positive.
func fieldQuery(query, field string, boost float64, fuzziness int) blevequery.Query {
	terms := strings.Fields(strings.ToLower(query))
	if fuzziness <= 0 || len(terms) == 0 {
		mq := bleve.NewMatchQuery(query)
		mq.SetField(field)
		mq.SetBoost(boost)
		return mq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField(field)
		fq.SetBoost(boost)
		queries = append(queries, fq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// Delete removes a document from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of documents in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}
