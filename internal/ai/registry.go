package ai

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

// RunnerRegistry maps agent types to their AI runners.
// It provides thread-safe registration and lookup of runners.
type RunnerRegistry struct {
	mu      sync.RWMutex
	runners map[domain.Agent]Runner
}

// NewRunnerRegistry creates a new empty runner registry.
func NewRunnerRegistry() *RunnerRegistry {
	return &RunnerRegistry{
		runners: make(map[domain.Agent]Runner),
	}
}

// Register adds a runner for an agent type.
// If a runner already exists for the agent, it is replaced.
func (r *RunnerRegistry) Register(agent domain.Agent, runner Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[agent] = runner
}

// Get retrieves the runner for an agent type.
// Returns ErrAgentNotFound if no runner is registered for the agent.
func (r *RunnerRegistry) Get(agent domain.Agent) (Runner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runner, ok := r.runners[agent]
	if !ok {
		return nil, fmt.Errorf("%w: %s", forgeerrors.ErrAgentNotFound, agent)
	}
	return runner, nil
}

// Agents returns all registered agent types in sorted order.
func (r *RunnerRegistry) Agents() []domain.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agents := make([]domain.Agent, 0, len(r.runners))
	for a := range r.runners {
		agents = append(agents, a)
	}
	slices.Sort(agents)
	return agents
}

// MultiRunner dispatches AI requests to the appropriate runner based on the agent field.
// Requests without an agent go to the default agent.
type MultiRunner struct {
	registry     *RunnerRegistry
	defaultAgent domain.Agent
}

// NewMultiRunner creates a multi-runner with the given registry.
// defaultAgent may be empty, in which case every request must name its agent.
func NewMultiRunner(registry *RunnerRegistry, defaultAgent domain.Agent) *MultiRunner {
	return &MultiRunner{registry: registry, defaultAgent: defaultAgent}
}

// Run dispatches to the appropriate runner based on req.Agent.
func (m *MultiRunner) Run(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	agent := req.Agent
	if agent == "" {
		agent = m.defaultAgent
	}
	if agent == "" {
		return nil, fmt.Errorf("%w: agent must be specified in request", forgeerrors.ErrEmptyValue)
	}

	runner, err := m.registry.Get(agent)
	if err != nil {
		return nil, err
	}

	return runner.Run(ctx, req)
}

// Compile-time check that MultiRunner implements Runner.
var _ Runner = (*MultiRunner)(nil)
