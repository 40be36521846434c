// Package retriever pulls food candidates for each meal slot from the food
// corpus and ranks them by how well their calories fit the slot target.
package retriever

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hyperjump/kondate/internal/models"
	"go.uber.org/zap"
)

// Corpus is the searchable food store. An empty result is not an error.
type Corpus interface {
	Search(ctx context.Context, query string, k int) ([]models.CorpusHit, error)
}

// Options tune retrieval.
type Options struct {
	RetrievalK        int
	MaxPerMeal        int
	FlexibilityFactor float64
	// SearchTimeout bounds each corpus call. Zero means no per-call bound.
	SearchTimeout time.Duration
}

// DefaultOptions returns K=10, 6 candidates per meal, flexibility 1.5 and a 5s search timeout.
func DefaultOptions() Options {
	return Options{
		RetrievalK:        10,
		MaxPerMeal:        6,
		FlexibilityFactor: 1.5,
		SearchTimeout:     5 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RetrievalK <= 0 {
		o.RetrievalK = d.RetrievalK
	}
	if o.MaxPerMeal <= 0 {
		o.MaxPerMeal = d.MaxPerMeal
	}
	if o.FlexibilityFactor <= 0 {
		o.FlexibilityFactor = d.FlexibilityFactor
	}
	return o
}

// Retriever fetches and ranks candidates. Safe for concurrent use.
type Retriever struct {
	corpus Corpus
	opts   Options
	logger *zap.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithLogger sets the logger used for degraded retrievals.
func WithLogger(l *zap.Logger) Option {
	return func(r *Retriever) { r.logger = l }
}

// WithOptions overrides the retrieval options; zero fields fall back to defaults.
func WithOptions(o Options) Option {
	return func(r *Retriever) { r.opts = o.withDefaults() }
}

// New creates a retriever over corpus.
func New(corpus Corpus, opts ...Option) *Retriever {
	r := &Retriever{
		corpus: corpus,
		opts:   DefaultOptions(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Options returns the effective options.
func (r *Retriever) Options() Options {
	return r.opts
}

// Retrieve returns at most MaxPerMeal ranked candidates for slot. Corpus
// failures, timeouts and empty results all yield an empty list.
func (r *Retriever) Retrieve(ctx context.Context, slot models.MealSlot, query string, target int) []models.FoodCandidate {
	hits, err := r.search(ctx, query)
	if err != nil {
		r.logger.Warn("corpus search failed, no candidates for slot",
			zap.String("slot", slot.String()),
			zap.String("query", query),
			zap.Error(err))
		return []models.FoodCandidate{}
	}

	items := make([]models.FoodCandidate, 0, len(hits))
	for _, h := range hits {
		items = append(items, models.FoodCandidate{
			Content:     h.Text,
			Calories:    ExtractCalories(h.Text),
			MealType:    slot,
			SearchQuery: query,
		})
	}
	ranked := FilterAndRank(items, target, r.opts.FlexibilityFactor)
	if len(ranked) > r.opts.MaxPerMeal {
		ranked = ranked[:r.opts.MaxPerMeal]
	}
	r.logger.Debug("retrieved candidates",
		zap.String("slot", slot.String()),
		zap.String("query", query),
		zap.Int("hits", len(hits)),
		zap.Int("kept", len(ranked)))
	return ranked
}

// RetrieveAll runs Retrieve concurrently for every slot with a positive
// allocation in plan. Slots with no allocation issue no corpus call and are
// absent from the result.
func (r *Retriever) RetrieveAll(ctx context.Context, plan models.CaloricPlan, input models.ParsedInput) map[models.MealSlot][]models.FoodCandidate {
	var (
		results [len(models.MealSlots)][]models.FoodCandidate
		active  [len(models.MealSlots)]bool
		wg      sync.WaitGroup
	)
	for _, s := range models.MealSlots {
		target := plan.Meals[s].Calories
		if target <= 0 {
			continue
		}
		active[s] = true
		query := BuildQuery(s, input.MealRequests)
		wg.Add(1)
		go func(s models.MealSlot) {
			defer wg.Done()
			results[s] = r.Retrieve(ctx, s, query, target)
		}(s)
	}
	wg.Wait()

	out := make(map[models.MealSlot][]models.FoodCandidate)
	for _, s := range models.MealSlots {
		if active[s] {
			out[s] = results[s]
		}
	}
	return out
}

type searchResult struct {
	hits []models.CorpusHit
	err  error
}

// search calls the corpus under the per-call timeout. A corpus that ignores
// cancellation is abandoned when the deadline passes.
func (r *Retriever) search(ctx context.Context, query string) ([]models.CorpusHit, error) {
	if r.corpus == nil {
		return nil, models.ErrCorpusUnavailable
	}
	if r.opts.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.SearchTimeout)
		defer cancel()
	}

	done := make(chan searchResult, 1)
	go func() {
		hits, err := r.corpus.Search(ctx, query, r.opts.RetrievalK)
		done <- searchResult{hits: hits, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrCorpusUnavailable, res.err)
		}
		return res.hits, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", models.ErrCorpusUnavailable, ctx.Err())
	}
}
