package planner

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/kondate/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedPlanner wraps a Service with a span per request and plan metrics.
type InstrumentedPlanner struct {
	next   Service
	tracer trace.Tracer

	plans          metric.Int64Counter
	plansFailed    metric.Int64Counter
	candidates     metric.Int64Counter
	emptyRetrieval metric.Int64Counter
	grandTotal     metric.Int64Gauge
	duration       metric.Float64Histogram
}

// NewInstrumentedPlanner creates the metric instruments on meter and wraps next.
func NewInstrumentedPlanner(next Service, tracer trace.Tracer, meter metric.Meter) (*InstrumentedPlanner, error) {
	p := &InstrumentedPlanner{next: next, tracer: tracer}
	var err, e error
	p.plans, e = meter.Int64Counter("plans_total",
		metric.WithDescription("Total number of meal plan requests"))
	err = errors.Join(err, e)
	p.plansFailed, e = meter.Int64Counter("plans_failed_total",
		metric.WithDescription("Total number of meal plan requests that failed"))
	err = errors.Join(err, e)
	p.candidates, e = meter.Int64Counter("candidates_retrieved_total",
		metric.WithDescription("Total number of food candidates retrieved across slots"))
	err = errors.Join(err, e)
	p.emptyRetrieval, e = meter.Int64Counter("retrieval_empty_total",
		metric.WithDescription("Total number of slots planned without any candidate"))
	err = errors.Join(err, e)
	p.grandTotal, e = meter.Int64Gauge("plan_grand_total_kcal",
		metric.WithDescription("Grand total of the latest plan in kcal"))
	err = errors.Join(err, e)
	p.duration, e = meter.Float64Histogram("plan_duration_seconds",
		metric.WithDescription("Duration of meal plan requests in seconds"))
	err = errors.Join(err, e)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Plan runs the wrapped planner inside a span.
func (p *InstrumentedPlanner) Plan(ctx context.Context, profile models.UserProfile, input models.ParsedInput) (*models.PlanResult, error) {
	ctx, span := p.tracer.Start(ctx, "Planner.Plan")
	defer span.End()

	start := time.Now()
	span.SetAttributes(
		attribute.Int("plan.target_calories", profile.TargetCalories),
		attribute.Int("plan.meals_eaten", len(input.EatenSlots())),
	)
	p.plans.Add(ctx, 1)

	result, err := p.next.Plan(ctx, profile, input)
	p.duration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		p.plansFailed.Add(ctx, 1)
		span.SetStatus(codes.Error, "meal plan failed")
		span.RecordError(err)
		return nil, err
	}

	for slot, list := range result.Candidates {
		attrs := metric.WithAttributes(attribute.String("slot", slot.String()))
		p.candidates.Add(ctx, int64(len(list)), attrs)
		if len(list) == 0 {
			p.emptyRetrieval.Add(ctx, 1, attrs)
		}
	}
	p.grandTotal.Record(ctx, int64(result.Totals.GrandTotal))
	span.SetAttributes(
		attribute.Int("plan.consumed_calories", result.CaloricPlan.ConsumedCalories),
		attribute.Int("plan.grand_total", result.Totals.GrandTotal),
		attribute.Int("plan.difference", result.Totals.Difference),
		attribute.String("plan.meals_to_plan", models.JoinTitles(result.CaloricPlan.RemainingMeals)),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}
