// Package generation issues role requests against the content-generation
// transport and runs execution plans in parallel or sequential mode.
package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/mrz1836/forge/internal/ai"
	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
	"github.com/mrz1836/forge/internal/prompts"
)

// AssemblyRoleID tags the single assembly request in logs and transport calls.
const AssemblyRoleID = "assembly"

// Request is what one role call carries to the provider.
type Request struct {
	// RoleInstructions become the system prompt.
	RoleInstructions string

	// UserRequestSummary is the user's request text.
	UserRequestSummary string

	// ContextFields are the derived requirement fields.
	ContextFields map[string]string

	// Documents are attached documents, already capped.
	Documents []domain.Document
}

// Client turns a Request into one provider call.
type Client struct {
	runner ai.Runner
	cache  *lru.Cache[string, string]
	logger zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithCache keeps up to size successful responses in memory, keyed by role and
// prompt digest. A size of zero or less disables the cache.
func WithCache(size int) ClientOption {
	return func(c *Client) error {
		if size <= 0 {
			c.cache = nil
			return nil
		}
		cache, err := lru.New[string, string](size)
		if err != nil {
			return fmt.Errorf("create response cache: %w", err)
		}
		c.cache = cache
		return nil
	}
}

// WithClientLogger sets the client's logger.
func WithClientLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// NewClient creates a Client over runner.
func NewClient(runner ai.Runner, opts ...ClientOption) (*Client, error) {
	c := &Client{runner: runner, logger: zerolog.Nop()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Call issues one request for role and returns the raw response text.
// Any transport failure, unsuccessful result or empty output is an ErrTransport.
func (c *Client) Call(ctx context.Context, role domain.Role, req Request) (string, error) {
	docs := make([]prompts.DocumentData, 0, len(req.Documents))
	for _, d := range req.Documents {
		docs = append(docs, prompts.DocumentData{Name: d.Name, Text: d.Text})
	}

	prompt, err := prompts.Render(prompts.RoleRequest, prompts.RoleRequestData{
		RoleName:      role.DisplayName,
		UserRequest:   req.UserRequestSummary,
		ContextFields: req.ContextFields,
		Documents:     docs,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt for role %s: %w", role.ID, err)
	}

	return c.send(ctx, role.ID, req.RoleInstructions, prompt)
}

// Assemble issues the single assembly request that turns the succeeded role
// outputs into one deliverable.
func (c *Client) Assemble(ctx context.Context, data prompts.AssemblyData) (string, error) {
	prompt, err := prompts.Render(prompts.Assembly, data)
	if err != nil {
		return "", fmt.Errorf("render assembly prompt: %w", err)
	}
	return c.send(ctx, AssemblyRoleID, "", prompt)
}

func (c *Client) send(ctx context.Context, roleID, system, prompt string) (string, error) {
	key := cacheKey(roleID, system, prompt)
	if c.cache != nil {
		if out, ok := c.cache.Get(key); ok {
			c.logger.Debug().Str("role_id", roleID).Msg("response served from cache")
			return out, nil
		}
	}

	result, err := c.runner.Run(ctx, ai.NewAIRequest(prompt,
		ai.WithSystemPrompt(system),
		ai.WithRoleID(roleID),
	))
	if err != nil {
		return "", fmt.Errorf("%w: role %s: %w", forgeerrors.ErrTransport, roleID, err)
	}
	if result == nil {
		return "", fmt.Errorf("%w: role %s: %w", forgeerrors.ErrTransport, roleID, forgeerrors.ErrAIEmptyResponse)
	}
	if !result.Success {
		detail := result.Error
		if detail == "" {
			detail = "provider reported failure"
		}
		return "", fmt.Errorf("%w: role %s: %s", forgeerrors.ErrTransport, roleID, detail)
	}
	if result.Output == "" {
		return "", fmt.Errorf("%w: role %s: %w", forgeerrors.ErrTransport, roleID, forgeerrors.ErrAIEmptyResponse)
	}

	if c.cache != nil {
		c.cache.Add(key, result.Output)
	}
	return result.Output, nil
}

// cacheKey digests the full request so identical calls share an entry.
func cacheKey(roleID, system, prompt string) string {
	h := sha256.New()
	h.Write([]byte(roleID))
	h.Write([]byte{0})
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return roleID + ":" + hex.EncodeToString(h.Sum(nil))
}
