package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/mrz1836/forge/internal/config"
	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

// geminiInfo contains Gemini-specific metadata for error messages.
//
//nolint:gochecknoglobals // Constant-like structure
var geminiInfo = CLIInfo{
	Name:        "gemini",
	InstallHint: "set GEMINI_API_KEY",
	ErrType:     forgeerrors.ErrGeminiInvocation,
	EnvVar:      "GEMINI_API_KEY",
}

// contentGenerator is the subset of the genai Models service the runner uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiRunner implements Runner on the Gemini API through the genai SDK.
type GeminiRunner struct {
	base   BaseRunner
	models contentGenerator
	logger zerolog.Logger
}

// GeminiRunnerOption is a functional option for configuring GeminiRunner.
type GeminiRunnerOption func(*GeminiRunner)

// WithGeminiLogger sets the logger for the GeminiRunner.
func WithGeminiLogger(logger zerolog.Logger) GeminiRunnerOption {
	return func(r *GeminiRunner) {
		r.logger = logger
	}
}

// NewGeminiRunner creates a GeminiRunner backed by a genai client for the Gemini API.
func NewGeminiRunner(ctx context.Context, cfg *config.AIConfig, apiKey string, opts ...GeminiRunnerOption) (*GeminiRunner, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, WrapAPIError(geminiInfo, err)
	}
	return newGeminiRunner(cfg, client.Models, opts...), nil
}

func newGeminiRunner(cfg *config.AIConfig, models contentGenerator, opts ...GeminiRunnerOption) *GeminiRunner {
	r := &GeminiRunner{
		base: BaseRunner{
			Config:  cfg,
			ErrType: forgeerrors.ErrGeminiInvocation,
		},
		models: models,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.base.Logger = r.logger
	return r
}

// Run executes an AI request against the Gemini API.
func (r *GeminiRunner) Run(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	return r.base.RunWithTimeout(ctx, req, r.execute)
}

func (r *GeminiRunner) execute(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	model := r.base.ResolveModel(domain.AgentGemini, req)

	var genCfg *genai.GenerateContentConfig
	if req.SystemPrompt != "" {
		genCfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}},
		}
	}

	start := time.Now()
	resp, err := r.models.GenerateContent(ctx, model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: req.Prompt}}}},
		genCfg,
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, WrapAPIError(geminiInfo, err)
	}

	text := geminiText(resp)
	if text == "" {
		return nil, fmt.Errorf("%w: model %s: %w", forgeerrors.ErrGeminiInvocation, model, forgeerrors.ErrAIEmptyResponse)
	}

	elapsed := time.Since(start)
	r.logger.Debug().
		Str("role_id", req.RoleID).
		Str("model", model).
		Dur("duration", elapsed).
		Msg("gemini call completed")

	return &domain.AIResult{
		Success:    true,
		Output:     text,
		DurationMs: int(elapsed.Milliseconds()),
	}, nil
}

// geminiText joins the non-thought text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// Compile-time check that GeminiRunner implements Runner.
var _ Runner = (*GeminiRunner)(nil)
