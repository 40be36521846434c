// Package planner runs one meal planning request end to end: allocate the
// day's calories, retrieve candidates per slot, then assemble the plan.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/kondate/internal/allocator"
	"github.com/hyperjump/kondate/internal/assembler"
	"github.com/hyperjump/kondate/internal/models"
	"go.uber.org/zap"
)

// Service plans a day of meals.
type Service interface {
	Plan(ctx context.Context, profile models.UserProfile, input models.ParsedInput) (*models.PlanResult, error)
}

// CandidateSource retrieves ranked candidates for every slot that needs planning.
type CandidateSource interface {
	RetrieveAll(ctx context.Context, plan models.CaloricPlan, input models.ParsedInput) map[models.MealSlot][]models.FoodCandidate
}

// PlanAssembler phrases the plan and recomputes totals.
type PlanAssembler interface {
	Assemble(ctx context.Context, in assembler.PromptInput) (models.AssembledPlan, error)
}

// Planner is the default Service. Stateless per request and safe for concurrent use.
type Planner struct {
	candidates CandidateSource
	assembler  PlanAssembler
	logger     *zap.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

// New creates a planner.
func New(candidates CandidateSource, asm PlanAssembler, opts ...Option) *Planner {
	p := &Planner{
		candidates: candidates,
		assembler:  asm,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan runs the pipeline. Corpus problems only thin out the candidate lists;
// a generation failure fails the request.
func (p *Planner) Plan(ctx context.Context, profile models.UserProfile, input models.ParsedInput) (*models.PlanResult, error) {
	start := time.Now()

	plan := allocator.AllocateRemaining(profile.TargetCalories, input.AlreadyEaten)
	input.MealsToPlan = plan.RemainingMeals
	p.logger.Debug("calories allocated",
		zap.Int("target", profile.TargetCalories),
		zap.Int("consumed", plan.ConsumedCalories),
		zap.Int("remaining", plan.RemainingTarget),
		zap.String("meals_to_plan", models.JoinTitles(plan.RemainingMeals)))

	candidates := p.candidates.RetrieveAll(ctx, plan, input)

	assembled, err := p.assembler.Assemble(ctx, assembler.PromptInput{
		Profile:    profile,
		Input:      input,
		Plan:       plan,
		Candidates: candidates,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble meal plan: %w", err)
	}

	p.logger.Info("meal plan ready",
		zap.Int("target", profile.TargetCalories),
		zap.Int("grand_total", assembled.Totals.GrandTotal),
		zap.Int("difference", assembled.Totals.Difference),
		zap.Int("notes", len(assembled.Notes)),
		zap.Duration("elapsed", time.Since(start)))

	return &models.PlanResult{
		ParsedInput: input,
		CaloricPlan: plan,
		Candidates:  candidates,
		MealPlan:    assembled.Text,
		Subtotals:   assembled.Subtotals,
		Totals:      assembled.Totals,
		Notes:       assembled.Notes,
	}, nil
}
