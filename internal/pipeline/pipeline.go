// Package pipeline wires the request flow end to end: validation, requirement
// extraction, clarification, role planning, generation, delivery and issue
// detection.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/forge/internal/ai"
	"github.com/mrz1836/forge/internal/clarify"
	"github.com/mrz1836/forge/internal/clock"
	"github.com/mrz1836/forge/internal/collab"
	"github.com/mrz1836/forge/internal/config"
	"github.com/mrz1836/forge/internal/ctxutil"
	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
	"github.com/mrz1836/forge/internal/extract"
	"github.com/mrz1836/forge/internal/generation"
	"github.com/mrz1836/forge/internal/requirements"
	"github.com/mrz1836/forge/internal/review"
	"github.com/mrz1836/forge/internal/roles"
)

// Turn is one call into the pipeline.
type Turn struct {
	// Request is the user's original request text. It is validated and
	// classified on every turn.
	Request string

	// Documents are plain-text attachments, capped on ingestion.
	Documents []requirements.RawDocument

	// Prior is the record returned with a question bundle. When set, Answer is
	// folded into it instead of re-extracting Request.
	Prior *domain.RequirementRecord

	// Answer is the user's reply to the previous bundle.
	Answer string

	// UseDefaults settles every pending question with its default.
	UseDefaults bool
}

// Outcome is everything one turn produced. Either Bundle is set and generation
// did not run, or Artifact is set.
type Outcome struct {
	Intent     domain.Intent            `json:"intent"`
	Record     domain.RequirementRecord `json:"record"`
	Decision   clarify.Decision         `json:"decision"`
	Bundle     *clarify.Bundle          `json:"bundle,omitempty"`
	Plan       *domain.ExecutionPlan    `json:"plan,omitempty"`
	Results    []domain.RoleResult      `json:"results,omitempty"`
	Artifact   domain.Artifact          `json:"-"`
	Extraction *extract.Result          `json:"extraction,omitempty"`
	Reviews    []review.Report          `json:"reviews,omitempty"`
	Sessions   []*collab.Session        `json:"sessions,omitempty"`
}

// NeedsAnswer reports whether the turn stopped at a question bundle.
func (o *Outcome) NeedsAnswer() bool {
	return o.Bundle != nil
}

// Pipeline runs turns. It is safe for concurrent use; the session store is the
// only state shared between turns.
type Pipeline struct {
	cfg       *config.Config
	client    *generation.Client
	executor  *generation.Executor
	extractor *extract.Extractor
	resolver  *clarify.Resolver
	detector  *review.Detector
	store     *collab.Store
	clock     clock.Clock
	progress  generation.ProgressFunc
	logger    zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger handed to every stage.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithClock sets the clock used for role timings and sessions.
func WithClock(c clock.Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}

// WithProgress registers a role progress callback.
func WithProgress(fn generation.ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// WithStore shares a session store across pipelines.
func WithStore(store *collab.Store) Option {
	return func(p *Pipeline) {
		p.store = store
	}
}

// New creates a Pipeline. runner may be nil for a pipeline that only
// previews turns; Run then fails with ErrAgentNotFound.
func New(cfg *config.Config, runner ai.Runner, opts ...Option) (*Pipeline, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:    cfg,
		clock:  clock.RealClock{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.extractor = extract.New(extract.WithLogger(p.logger))
	p.resolver = clarify.NewResolver(cfg.Clarification.MaxRounds)
	p.detector = review.NewDetector(
		review.WithEscalationThreshold(cfg.Collaboration.EscalationIssueThreshold),
		review.WithDetectorLogger(p.logger),
	)
	if p.store == nil {
		p.store = collab.NewStore(collab.WithStoreClock(p.clock), collab.WithStoreLogger(p.logger))
	}

	if runner != nil {
		client, err := generation.NewClient(runner,
			generation.WithCache(cfg.Generation.CacheSize),
			generation.WithClientLogger(p.logger),
		)
		if err != nil {
			return nil, err
		}
		p.client = client
		p.executor = generation.NewExecutor(client,
			generation.WithClock(p.clock),
			generation.WithExecutorLogger(p.logger),
			generation.WithProgress(p.progress),
		)
	}
	return p, nil
}

// Preview runs a turn up to planning without calling any provider. The
// returned outcome carries either a bundle or a plan.
func (p *Pipeline) Preview(ctx context.Context, turn Turn) (*Outcome, error) {
	out, err := p.prepare(ctx, turn)
	if err != nil || out.NeedsAnswer() {
		return out, err
	}
	plan := p.plan(out.Record)
	out.Plan = &plan
	return out, nil
}

// Run executes a turn. It returns early with a bundle when a question must be
// asked. ErrValidation is returned before any generation; ErrAllRolesFailed
// when no role produced output or the assembly call failed.
func (p *Pipeline) Run(ctx context.Context, turn Turn) (*Outcome, error) {
	if p.executor == nil {
		return nil, fmt.Errorf("pipeline has no runner: %w", forgeerrors.ErrAgentNotFound)
	}
	ctx = p.logger.WithContext(ctx)

	out, err := p.prepare(ctx, turn)
	if err != nil || out.NeedsAnswer() {
		return out, err
	}

	plan := p.plan(out.Record)
	out.Plan = &plan

	if err := ctxutil.CanceledAt(ctx, "generate"); err != nil {
		return out, err
	}

	out.Results = p.executor.Execute(ctx, plan, generation.Request{
		UserRequestSummary: turn.Request,
		ContextFields:      requirements.ContextFields(out.Record),
		Documents:          out.Record.Documents,
	})
	if generation.AllFailed(out.Results) {
		return out, fmt.Errorf("%w: %d role(s) attempted: %w",
			forgeerrors.ErrAllRolesFailed, len(out.Results), forgeerrors.ErrTransport)
	}

	if err := p.deliver(ctx, turn.Request, out); err != nil {
		return out, err
	}

	p.reviewResults(ctx, out)
	return out, nil
}

// prepare validates the turn and settles the requirement record.
func (p *Pipeline) prepare(ctx context.Context, turn Turn) (*Outcome, error) {
	if err := ctxutil.CanceledAt(ctx, "prepare"); err != nil {
		return nil, err
	}
	if err := requirements.ValidateRequest(turn.Request, p.cfg.Generation.MaxRequestLength); err != nil {
		return nil, err
	}

	docs := requirements.IngestDocuments(turn.Documents, p.cfg.Generation.DocumentCharCap)
	out := &Outcome{Intent: requirements.ClassifyIntent(turn.Request)}

	switch {
	case turn.Prior != nil && (turn.Answer != "" || turn.UseDefaults):
		reply := turn.Answer
		if turn.UseDefaults {
			reply = "defaults"
		}
		res := p.resolver.Resolve(*turn.Prior, reply, out.Intent)
		out.Record = res.Record
		if len(docs) > 0 {
			out.Record.Documents = append(out.Record.Documents, docs...)
			requirements.Derive(&out.Record)
		}
		if !res.Ready() {
			out.Decision = clarify.Decide(out.Intent, out.Record)
			out.Intent = out.Decision.Annotate(out.Intent)
			out.Bundle = res.Bundle
			return out, nil
		}
	case turn.Prior != nil:
		out.Record = turn.Prior.Clone()
	default:
		out.Record = requirements.Extract(turn.Request, docs)
	}

	if turn.UseDefaults {
		rounds := out.Record.ClarificationRounds
		out.Record = clarify.ApplyDefaults(out.Record)
		out.Record.ClarificationRounds = rounds
	}

	out.Decision = clarify.Decide(out.Intent, out.Record)
	out.Intent = out.Decision.Annotate(out.Intent)

	if out.Decision.NeedsClarification {
		if p.cfg.Clarification.Enabled && out.Record.ClarificationRounds < p.cfg.Clarification.MaxRounds {
			out.Bundle = out.Decision.Bundle
			p.logger.Info().
				Int("questions", len(out.Bundle.Questions)).
				Int("round", out.Record.ClarificationRounds+1).
				Msg("clarification needed")
			return out, nil
		}
		rounds := out.Record.ClarificationRounds
		out.Record = clarify.ApplyDefaults(out.Record)
		out.Record.ClarificationRounds = rounds
		p.logger.Debug().Msg("unresolved fields take their defaults")
	}

	out.Record.Freeze()
	return out, nil
}

func (p *Pipeline) plan(record domain.RequirementRecord) domain.ExecutionPlan {
	plan := roles.Plan(record, roles.PlanOptions{ForceMode: domain.ExecutionMode(p.cfg.Generation.ForceMode)})
	p.logger.Info().
		Str("mode", plan.Mode.String()).
		Strs("roles", plan.RoleIDs()).
		Int("estimated_seconds", plan.EstimatedDurationSeconds).
		Msg("execution plan ready")
	return plan
}
