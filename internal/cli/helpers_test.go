package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mrz1836/forge/internal/ai"
	"github.com/mrz1836/forge/internal/config"
	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/tui"
)

// fakeRunner answers role requests by role id and records the calls.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []string
	answer func(roleID string) string
}

func (f *fakeRunner) factory() RunnerFactory {
	return func(_ context.Context, _ *config.AIConfig, _ zerolog.Logger) (ai.Runner, error) {
		return ai.RunnerFunc(func(_ context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
			f.mu.Lock()
			f.calls = append(f.calls, req.RoleID)
			f.mu.Unlock()
			return &domain.AIResult{Success: true, Output: f.answer(req.RoleID)}, nil
		}), nil
	}
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakePrompter answers prompts from queues and records the titles it was asked.
type fakePrompter struct {
	selects  []string
	inputs   []string
	confirm  bool
	asked    []string
	confirms int
}

func (f *fakePrompter) Select(title string, options []tui.Option) (string, error) {
	f.asked = append(f.asked, title)
	if len(f.selects) == 0 {
		return options[0].Value, nil
	}
	v := f.selects[0]
	f.selects = f.selects[1:]
	return v, nil
}

func (f *fakePrompter) Input(prompt, defaultValue string) (string, error) {
	f.asked = append(f.asked, prompt)
	if len(f.inputs) == 0 {
		return defaultValue, nil
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	return v, nil
}

func (f *fakePrompter) Confirm(message string, _ bool) (bool, error) {
	f.asked = append(f.asked, message)
	f.confirms++
	return f.confirm, nil
}

// isolateHome points the global config and log directories at temp dirs.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FORGE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
}

// execute runs the root command with args and returns stdout, stderr and the error.
func execute(t *testing.T, args []string, opts ...Option) (string, string, error) {
	t.Helper()

	opts = append([]Option{WithInteractive(func() bool { return false })}, opts...)
	cmd, a := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"}, opts...)
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	_ = a.closeLog()
	return stdout.String(), stderr.String(), err
}
