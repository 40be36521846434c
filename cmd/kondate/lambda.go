package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/hyperjump/kondate/internal/models"
	"github.com/hyperjump/kondate/internal/planner"
	"github.com/hyperjump/kondate/internal/telemetry"
	"go.uber.org/zap"
)

// lambdaHandler serves one plan request per invocation. The event has the
// same shape as the HTTP meal-plan body.
type lambdaHandler struct {
	planner planner.Service
	logger  *zap.Logger
}

var errMissingTarget = errors.New("missing required field: target_calories")

func (h *lambdaHandler) handle(ctx context.Context, event planRequest) (*models.PlanResult, error) {
	profile := models.DefaultUserProfile()
	if event.UserProfile != nil {
		profile = *event.UserProfile
		if profile.TargetCalories <= 0 {
			return nil, errMissingTarget
		}
	}
	if event.ParsedInput.AlreadyEaten == nil {
		event.ParsedInput.AlreadyEaten = make(map[models.MealSlot][]string)
	}

	result, err := h.planner.Plan(ctx, profile, event.ParsedInput)
	if err != nil {
		h.logger.Error("plan failed", zap.Error(err))
		return nil, err
	}
	h.logger.Info("plan complete",
		zap.Int("target_calories", profile.TargetCalories),
		zap.Int("grand_total", result.Totals.GrandTotal),
	)
	return result, nil
}

// runLambda builds the planner once per cold start and hands the handler to
// the Lambda runtime. Storage paths should point under /tmp
// (KONDATE_STORAGE_* variables); corpus sources are ingested on start.
func runLambda() {
	fs := flag.NewFlagSet("lambda", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, logger := setup(*configPath, false)
	defer logger.Sync()
	ctx := context.Background()

	providers, shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() { _ = shutdownTelemetry(ctx) }()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()
	for _, source := range cfg.Corpus.Sources {
		if _, err := ingestSource(ctx, components, source); err != nil {
			logger.Warn("corpus source ingest failed", zap.String("source", source), zap.Error(err))
		}
	}

	svc, err := newPlanner(ctx, cfg, components, providers, logger)
	if err != nil {
		logger.Fatal("Failed to initialize planner", zap.Error(err))
	}
	h := &lambdaHandler{planner: svc, logger: logger}
	lambda.Start(h.handle)
}
