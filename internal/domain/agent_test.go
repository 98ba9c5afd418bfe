package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgent_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		agent Agent
		want  bool
	}{
		{"claude is valid", AgentClaude, true},
		{"gemini is valid", AgentGemini, true},
		{"openai is valid", AgentOpenAI, true},
		{"empty is invalid", Agent(""), false},
		{"codex is invalid", Agent("codex"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.agent.IsValid())
		})
	}
}

func TestAgent_ResolveModelAlias(t *testing.T) {
	tests := []struct {
		agent Agent
		alias string
		want  string
	}{
		{AgentClaude, "sonnet", "claude-sonnet-4-20250514"},
		{AgentGemini, "flash", "gemini-2.5-flash"},
		{AgentOpenAI, "mini", "gpt-4o-mini"},
		{AgentOpenAI, "gpt-4.1", "gpt-4.1"},
		{Agent("other"), "sonnet", "sonnet"},
	}

	for _, tt := range tests {
		t.Run(tt.agent.String()+"/"+tt.alias, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.agent.ResolveModelAlias(tt.alias))
		})
	}
}

func TestAgent_DefaultsAndKeys(t *testing.T) {
	for _, a := range []Agent{AgentClaude, AgentGemini, AgentOpenAI} {
		assert.NotEmpty(t, a.DefaultModel(), a)
		assert.NotEmpty(t, a.APIKeyEnvVar(), a)
		assert.NotEqual(t, a.DefaultModel(), a.ResolveModelAlias(a.DefaultModel()), a)
	}
	assert.Empty(t, Agent("x").DefaultModel())
	assert.Empty(t, Agent("x").APIKeyEnvVar())
}

func TestAllAgents(t *testing.T) {
	agents := AllAgents()
	assert.Equal(t, []Agent{AgentClaude, AgentGemini, AgentOpenAI}, agents)
	for _, a := range agents {
		assert.True(t, a.IsValid())
		assert.NotEmpty(t, a.APIKeyEnvVar())
	}
}
