package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.uber.org/zap"
)

const (
	// defaultBedrockModelID is an inference profile ID, not a foundation model ID.
	defaultBedrockModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"
	defaultBedrockTokens  = 2048
	defaultBedrockTemp    = 0.3
	defaultBedrockTopP    = 0.9
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockOptions configure a Bedrock backend. Zero values use defaults.
type BedrockOptions struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Bedrock generates text with the Bedrock Converse API.
type Bedrock struct {
	brc    bedrockRuntimeClient
	opts   BedrockOptions
	logger *zap.Logger
}

// NewBedrock creates a Bedrock backend around brc.
func NewBedrock(brc bedrockRuntimeClient, opts BedrockOptions, logger *zap.Logger) *Bedrock {
	if opts.ModelID == "" {
		opts.ModelID = defaultBedrockModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultBedrockTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultBedrockTemp
	}
	if opts.TopP == 0 {
		opts.TopP = defaultBedrockTopP
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bedrock{brc: brc, opts: opts, logger: logger}
}

// Generate sends prompt as one user message and returns the joined text blocks of the reply.
func (b *Bedrock) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	in := &bedrockruntime.ConverseInput{
		ModelId: aws.String(b.opts.ModelID),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPrompt},
		},
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(b.opts.MaxTokens),
			Temperature: aws.Float32(b.opts.Temperature),
			TopP:        aws.Float32(b.opts.TopP),
		},
	}

	out, err := b.brc.Converse(ctx, in)
	if err != nil {
		return "", fmt.Errorf("bedrock converse failed: %w", err)
	}

	switch out.StopReason {
	case types.StopReasonMaxTokens:
		b.logger.Warn("bedrock hit the max token limit", zap.Int32("max_tokens", b.opts.MaxTokens))
		return "", fmt.Errorf("model hit MaxTokens limit (%d)", b.opts.MaxTokens)
	case types.StopReasonGuardrailIntervened, types.StopReasonContentFiltered:
		return "", fmt.Errorf("model response blocked by bedrock safety filters")
	}

	text := textFromOutput(out)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("bedrock returned no text")
	}

	fields := []zap.Field{
		zap.String("model", b.opts.ModelID),
		zap.String("stop_reason", string(out.StopReason)),
		zap.Int64("latency_ms", elapsedMs(start)),
	}
	if out.Usage != nil {
		fields = append(fields,
			zap.Int32("input_tokens", aws.ToInt32(out.Usage.InputTokens)),
			zap.Int32("output_tokens", aws.ToInt32(out.Usage.OutputTokens)))
	}
	b.logger.Debug("bedrock generation finished", fields...)
	return text, nil
}

// textFromOutput joins every non-empty text block of the assistant message.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil {
		return ""
	}
	var texts []string
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	return strings.Join(texts, "\n")
}
