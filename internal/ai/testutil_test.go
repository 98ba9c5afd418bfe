package ai

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

// Test errors for static error definitions
var (
	errTestNetwork     = errors.New("temporary network error")
	errTestAuthFailed  = errors.New("authentication failed: invalid API key")
	errTestExecMissing = errors.New("executable file not found")
	errTestExitStatus1 = errors.New("exit status 1")
	errTestProvider    = errors.New("provider test error")
)

// EnsureNoRealAPIKeys unsets provider API keys for the duration of a test so
// nothing can accidentally reach a real provider.
func EnsureNoRealAPIKeys(t *testing.T) {
	t.Helper()

	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
}

// instantSleep replaces timeSleep with a channel that fires immediately.
func instantSleep(t *testing.T) {
	t.Helper()

	original := timeSleep
	timeSleep = func(_ time.Duration) <-chan time.Time {
		ch := make(chan time.Time)
		close(ch)
		return ch
	}
	t.Cleanup(func() { timeSleep = original })
}

// MockExecutor is a test implementation of CommandExecutor that returns
// pre-configured output without running the claude CLI.
type MockExecutor struct {
	StdoutData []byte
	StderrData []byte
	Err        error
	// CapturedCmd stores the last executed command for verification.
	CapturedCmd *exec.Cmd
	Calls       int
}

func (m *MockExecutor) Execute(_ context.Context, cmd *exec.Cmd) ([]byte, []byte, error) {
	m.CapturedCmd = cmd
	m.Calls++
	return m.StdoutData, m.StderrData, m.Err
}

// RetryMockExecutor fails a fixed number of times before succeeding.
type RetryMockExecutor struct {
	failuresBeforeSuccess int
	successResponse       []byte
	callCount             int
}

func (m *RetryMockExecutor) Execute(_ context.Context, _ *exec.Cmd) ([]byte, []byte, error) {
	m.callCount++
	if m.callCount <= m.failuresBeforeSuccess {
		return nil, []byte("connection reset"), errTestNetwork
	}
	return m.successResponse, nil, nil
}
