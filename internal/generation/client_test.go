package generation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/forge/internal/ai"
	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
	"github.com/mrz1836/forge/internal/prompts"
)

var errTestProvider = errors.New("provider unavailable")

// recordingRunner captures every request and answers through reply.
type recordingRunner struct {
	mu       sync.Mutex
	requests []*domain.AIRequest
	reply    func(req *domain.AIRequest) (*domain.AIResult, error)
}

func (r *recordingRunner) Run(_ context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	return r.reply(req)
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func okReply(out string) func(*domain.AIRequest) (*domain.AIResult, error) {
	return func(*domain.AIRequest) (*domain.AIResult, error) {
		return &domain.AIResult{Success: true, Output: out}, nil
	}
}

var _ ai.Runner = (*recordingRunner)(nil)

func testRole() domain.Role {
	return domain.Role{ID: "designer", DisplayName: "Designer", Instructions: "Own the visual design.", Priority: 20}
}

func TestClient_Call(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{reply: okReply("<style>...</style>")}
	client, err := NewClient(runner)
	require.NoError(t, err)

	out, err := client.Call(context.Background(), testRole(), Request{
		RoleInstructions:   "Own the visual design.",
		UserRequestSummary: "a bakery landing page",
		ContextFields:      map[string]string{"app_type": "landing"},
		Documents:          []domain.Document{{Name: "menu.txt", Text: "croissant"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "<style>...</style>", out)

	require.Equal(t, 1, runner.count())
	req := runner.requests[0]
	assert.Equal(t, "Own the visual design.", req.SystemPrompt)
	assert.Equal(t, "designer", req.RoleID)
	assert.Contains(t, req.Prompt, "as the Designer")
	assert.Contains(t, req.Prompt, "a bakery landing page")
	assert.Contains(t, req.Prompt, "- app_type: landing")
	assert.Contains(t, req.Prompt, "croissant")
}

func TestClient_Call_TransportErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		reply    func(*domain.AIRequest) (*domain.AIResult, error)
		contains string
	}{
		{
			name:     "runner error",
			reply:    func(*domain.AIRequest) (*domain.AIResult, error) { return nil, errTestProvider },
			contains: "provider unavailable",
		},
		{
			name:     "nil result",
			reply:    func(*domain.AIRequest) (*domain.AIResult, error) { return nil, nil },
			contains: "empty response",
		},
		{
			name: "unsuccessful result",
			reply: func(*domain.AIRequest) (*domain.AIResult, error) {
				return &domain.AIResult{Success: false, Error: "overloaded"}, nil
			},
			contains: "overloaded",
		},
		{
			name: "unsuccessful result without detail",
			reply: func(*domain.AIRequest) (*domain.AIResult, error) {
				return &domain.AIResult{Success: false}, nil
			},
			contains: "provider reported failure",
		},
		{
			name:     "empty output",
			reply:    okReply(""),
			contains: "empty response",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, err := NewClient(&recordingRunner{reply: tc.reply})
			require.NoError(t, err)

			_, err = client.Call(context.Background(), testRole(), Request{UserRequestSummary: "x"})
			require.ErrorIs(t, err, forgeerrors.ErrTransport)
			assert.Contains(t, err.Error(), "role designer")
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestClient_Cache(t *testing.T) {
	t.Parallel()

	t.Run("identical calls hit the cache", func(t *testing.T) {
		t.Parallel()
		runner := &recordingRunner{reply: okReply("cached")}
		client, err := NewClient(runner, WithCache(8))
		require.NoError(t, err)

		req := Request{RoleInstructions: "i", UserRequestSummary: "same"}
		for range 3 {
			out, callErr := client.Call(context.Background(), testRole(), req)
			require.NoError(t, callErr)
			assert.Equal(t, "cached", out)
		}
		assert.Equal(t, 1, runner.count())

		_, err = client.Call(context.Background(), testRole(), Request{RoleInstructions: "i", UserRequestSummary: "different"})
		require.NoError(t, err)
		assert.Equal(t, 2, runner.count())
	})

	t.Run("failures are not cached", func(t *testing.T) {
		t.Parallel()
		runner := &recordingRunner{reply: func(*domain.AIRequest) (*domain.AIResult, error) { return nil, errTestProvider }}
		client, err := NewClient(runner, WithCache(8))
		require.NoError(t, err)

		for range 2 {
			_, callErr := client.Call(context.Background(), testRole(), Request{UserRequestSummary: "x"})
			require.Error(t, callErr)
		}
		assert.Equal(t, 2, runner.count())
	})

	t.Run("zero size disables the cache", func(t *testing.T) {
		t.Parallel()
		runner := &recordingRunner{reply: okReply("fresh")}
		client, err := NewClient(runner, WithCache(0))
		require.NoError(t, err)

		for range 2 {
			_, callErr := client.Call(context.Background(), testRole(), Request{UserRequestSummary: "x"})
			require.NoError(t, callErr)
		}
		assert.Equal(t, 2, runner.count())
	})
}

func TestClient_Assemble(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{reply: okReply("<html></html>")}
	client, err := NewClient(runner)
	require.NoError(t, err)

	out, err := client.Assemble(context.Background(), prompts.AssemblyData{
		UserRequest: "a portfolio",
		Sections:    []prompts.RoleSection{{RoleName: "Designer", Output: "dark theme"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", out)

	req := runner.requests[0]
	assert.Equal(t, AssemblyRoleID, req.RoleID)
	assert.Empty(t, req.SystemPrompt)
	assert.Contains(t, req.Prompt, "## Designer\ndark theme")
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	a := cacheKey("dev", "sys", "prompt")
	assert.Equal(t, a, cacheKey("dev", "sys", "prompt"))
	assert.NotEqual(t, a, cacheKey("qa", "sys", "prompt"))
	assert.NotEqual(t, cacheKey("dev", "sysp", "rompt"), cacheKey("dev", "sys", "prompt"), "separator keeps fields apart")
}
