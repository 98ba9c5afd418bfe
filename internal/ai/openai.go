package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/mrz1836/forge/internal/config"
	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

// openAIInfo contains OpenAI-specific metadata for error messages.
//
//nolint:gochecknoglobals // Constant-like structure
var openAIInfo = CLIInfo{
	Name:        "openai",
	InstallHint: "set OPENAI_API_KEY",
	ErrType:     forgeerrors.ErrOpenAIInvocation,
	EnvVar:      "OPENAI_API_KEY",
}

// OpenAIRunner implements Runner on an eino chat model.
type OpenAIRunner struct {
	base   BaseRunner
	model  einomodel.BaseChatModel
	logger zerolog.Logger
}

// OpenAIRunnerOption is a functional option for configuring OpenAIRunner.
type OpenAIRunnerOption func(*OpenAIRunner)

// WithOpenAILogger sets the logger for the OpenAIRunner.
func WithOpenAILogger(logger zerolog.Logger) OpenAIRunnerOption {
	return func(r *OpenAIRunner) {
		r.logger = logger
	}
}

// NewOpenAIRunner creates an OpenAIRunner backed by the eino OpenAI chat model.
// The configured model is the default; requests may override it per call.
func NewOpenAIRunner(ctx context.Context, cfg *config.AIConfig, apiKey string, opts ...OpenAIRunnerOption) (*OpenAIRunner, error) {
	base := BaseRunner{Config: cfg}
	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey: apiKey,
		Model:  base.ResolveModel(domain.AgentOpenAI, &domain.AIRequest{}),
	})
	if err != nil {
		return nil, WrapAPIError(openAIInfo, err)
	}
	return newOpenAIRunner(cfg, chat, opts...), nil
}

func newOpenAIRunner(cfg *config.AIConfig, chat einomodel.BaseChatModel, opts ...OpenAIRunnerOption) *OpenAIRunner {
	r := &OpenAIRunner{
		base: BaseRunner{
			Config:  cfg,
			ErrType: forgeerrors.ErrOpenAIInvocation,
		},
		model:  chat,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.base.Logger = r.logger
	return r
}

// Run executes an AI request against the chat model.
func (r *OpenAIRunner) Run(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	return r.base.RunWithTimeout(ctx, req, r.execute)
}

func (r *OpenAIRunner) execute(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	model := r.base.ResolveModel(domain.AgentOpenAI, req)

	messages := make([]*schema.Message, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, schema.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, schema.UserMessage(req.Prompt))

	start := time.Now()
	msg, err := r.model.Generate(ctx, messages, einomodel.WithModel(model))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, WrapAPIError(openAIInfo, err)
	}
	if msg == nil || msg.Content == "" {
		return nil, fmt.Errorf("%w: model %s: %w", forgeerrors.ErrOpenAIInvocation, model, forgeerrors.ErrAIEmptyResponse)
	}

	elapsed := time.Since(start)
	event := r.logger.Debug().
		Str("role_id", req.RoleID).
		Str("model", model).
		Dur("duration", elapsed)
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		event = event.Int("total_tokens", msg.ResponseMeta.Usage.TotalTokens)
	}
	event.Msg("openai call completed")

	return &domain.AIResult{
		Success:    true,
		Output:     msg.Content,
		DurationMs: int(elapsed.Milliseconds()),
	}, nil
}

// Compile-time check that OpenAIRunner implements Runner.
var _ Runner = (*OpenAIRunner)(nil)
