// Package assembler turns a calorie plan and ranked candidates into the final
// meal plan: it renders the prompt, makes one generation call and recomputes
// subtotals and daily totals from the generated text.
package assembler

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/kondate/internal/models"
	"go.uber.org/zap"
)

// Generator phrases the plan. Implementations must honour ctx deadlines.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options tune assembly.
type Options struct {
	CandidatesPerSlot int
	// GenerateTimeout bounds the single generation call. Zero means no bound beyond ctx.
	GenerateTimeout time.Duration
}

// Assembler builds plans with a Generator. Safe for concurrent use.
type Assembler struct {
	gen    Generator
	opts   Options
	logger *zap.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// WithOptions overrides the assembly options.
func WithOptions(o Options) Option {
	return func(a *Assembler) { a.opts = o }
}

// New creates an assembler using gen.
func New(gen Generator, opts ...Option) *Assembler {
	a := &Assembler{
		gen:    gen,
		opts:   Options{CandidatesPerSlot: DefaultCandidatesPerSlot, GenerateTimeout: 120 * time.Second},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble renders the prompt, calls the generator once and appends the
// totals block. A generator error or timeout fails the whole request with
// models.ErrGeneration; no partial plan is returned.
func (a *Assembler) Assemble(ctx context.Context, in PromptInput) (models.AssembledPlan, error) {
	if in.CandidatesPerSlot <= 0 {
		in.CandidatesPerSlot = a.opts.CandidatesPerSlot
	}
	prompt, err := BuildPrompt(in)
	if err != nil {
		return models.AssembledPlan{}, err
	}

	if a.opts.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.GenerateTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error("meal plan generation failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return models.AssembledPlan{}, fmt.Errorf("%w: %w", models.ErrGeneration, err)
	}
	if text == "" {
		a.logger.Warn("generator returned empty text, every subtotal will be 0")
	}

	subtotals := ExtractSubtotals(text)
	totals := ComputeTotals(subtotals, in.Plan, in.Profile.TargetCalories)
	a.logger.Debug("meal plan assembled",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("prompt_bytes", len(prompt)),
		zap.Int("grand_total", totals.GrandTotal),
		zap.Int("difference", totals.Difference))

	return models.AssembledPlan{
		Text:      text + "\n\n" + TotalsBlock(totals),
		Subtotals: subtotals,
		Totals:    totals,
		Notes:     missingCandidateNotes(in),
	}, nil
}

func missingCandidateNotes(in PromptInput) []string {
	var notes []string
	for _, s := range in.Plan.RemainingMeals {
		if len(in.Candidates[s]) == 0 {
			notes = append(notes, "no options found for "+s.String())
		}
	}
	return notes
}
