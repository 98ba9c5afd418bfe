// Package domain provides the shared data types of the forge pipeline: requirement
// records, roles and plans, role results, artifacts, and issue reports.
package domain

// Agent identifies which content-generation provider serves role calls.
type Agent string

// Supported agents.
const (
	// AgentClaude drives the Claude Code CLI as a subprocess.
	AgentClaude Agent = "claude"

	// AgentGemini calls the Gemini API through the genai SDK.
	AgentGemini Agent = "gemini"

	// AgentOpenAI calls an OpenAI chat model through eino.
	AgentOpenAI Agent = "openai"
)

// String returns the string representation of the Agent.
func (a Agent) String() string {
	return string(a)
}

// IsValid checks if the agent is a recognized type.
func (a Agent) IsValid() bool {
	switch a {
	case AgentClaude, AgentGemini, AgentOpenAI:
		return true
	}
	return false
}

// DefaultModel returns the default model alias for this agent.
func (a Agent) DefaultModel() string {
	switch a {
	case AgentClaude:
		return "sonnet"
	case AgentGemini:
		return "flash"
	case AgentOpenAI:
		return "mini"
	default:
		return ""
	}
}

// ResolveModelAlias converts a short model alias to the full model name.
// Unknown aliases are returned unchanged so full model names pass through.
func (a Agent) ResolveModelAlias(alias string) string {
	switch a {
	case AgentClaude:
		switch alias {
		case "sonnet":
			return "claude-sonnet-4-20250514"
		case "opus":
			return "claude-opus-4-20250514"
		}
	case AgentGemini:
		switch alias {
		case "flash":
			return "gemini-2.5-flash"
		case "pro":
			return "gemini-2.5-pro"
		}
	case AgentOpenAI:
		switch alias {
		case "mini":
			return "gpt-4o-mini"
		case "4o":
			return "gpt-4o"
		}
	}
	return alias
}

// APIKeyEnvVar returns the default environment variable name for the API key.
func (a Agent) APIKeyEnvVar() string {
	switch a {
	case AgentClaude:
		return "ANTHROPIC_API_KEY"
	case AgentGemini:
		return "GEMINI_API_KEY"
	case AgentOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// AllAgents returns every supported agent in display order.
func AllAgents() []Agent {
	return []Agent{AgentClaude, AgentGemini, AgentOpenAI}
}
