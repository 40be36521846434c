// Package generator provides the text generation backends that phrase meal plans.
package generator

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/hyperjump/kondate/internal/config"
	"go.uber.org/zap"
)

// Generator turns a prompt into text. Implementations must honour ctx deadlines.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HTTPClient is the subset of *http.Client used by HTTP backends.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Provider names accepted in configuration.
const (
	ProviderOllama  = "ollama"
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"
	ProviderGroq    = "groq"
	ProviderMock    = "mock"
)

// systemPrompt frames every request; the per-request contract lives in the user prompt.
const systemPrompt = "You are a nutrition assistant that writes daily meal plans. " +
	"Use only the food items you are given and follow the requested output format exactly."

// New builds the generator selected by cfg.Provider, wrapped in a rate limiter
// when cfg.RateLimitPerMinute is positive.
func New(ctx context.Context, cfg config.GeneratorConfig, logger *zap.Logger) (Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	var g Generator
	switch strings.ToLower(cfg.Provider) {
	case ProviderOllama, "":
		g = NewOllama(OllamaOptions{
			BaseEndpoint: cfg.Endpoint,
			Model:        cfg.Model,
			Temperature:  cfg.Temperature,
			HTTPClient:   httpClient,
		}, logger)
	case ProviderOpenAI, ProviderGroq:
		g = NewOpenAI(OpenAIOptions{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.Endpoint,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  httpClient,
		}, logger)
	case ProviderBedrock:
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		g = NewBedrock(bedrockruntime.NewFromConfig(awsCfg), BedrockOptions{
			ModelID:     cfg.Model,
			MaxTokens:   int32(cfg.MaxTokens),
			Temperature: float32(cfg.Temperature),
		}, logger)
	case ProviderMock:
		g = NewMock(DefaultMockResponse)
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}

	if cfg.RateLimitPerMinute > 0 {
		g = NewRateLimited(g, cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	}
	return g, nil
}

// Func adapts a function to Generator.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
