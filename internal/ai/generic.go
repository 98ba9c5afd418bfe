package ai

import (
	"encoding/json"
	"fmt"
)

// parseResponse is a generic JSON response parser for provider CLI output.
// errSentinel is the provider-specific error used to wrap failures.
//
// Usage:
//
//	resp, err := parseResponse[ClaudeResponse](stdout, forgeerrors.ErrClaudeInvocation)
func parseResponse[T any](data []byte, errSentinel error) (*T, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty response", errSentinel)
	}

	var resp T
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse json response (%d bytes): %w", errSentinel, len(data), err)
	}

	return &resp, nil
}
