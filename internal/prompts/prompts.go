package prompts

import (
	"bytes"
	"errors"
	"fmt"
)

// Render executes a prompt template with the provided data and returns the result.
// The data type should match the expected type for the given prompt ID.
//
// Example:
//
//	prompt, err := prompts.Render(prompts.RoleRequest, prompts.RoleRequestData{
//	    RoleName:    "Designer",
//	    UserRequest: "a portfolio site",
//	})
func Render(id PromptID, data any) (string, error) {
	if err := ValidateData(id, data); err != nil {
		return "", err
	}

	e, err := builtin().lookup(id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return "", errors.Join(ErrTemplateExecution, fmt.Errorf("prompt %s: %w", id, err))
	}

	return buf.String(), nil
}

// ValidateData checks if the provided data is valid for the given prompt ID.
// Unknown IDs pass; Render reports them as ErrTemplateNotFound.
func ValidateData(id PromptID, data any) error {
	switch id {
	case RoleRequest:
		if _, ok := data.(RoleRequestData); !ok {
			return fmt.Errorf("%w: expected RoleRequestData, got %T", ErrInvalidData, data)
		}
	case Assembly:
		if _, ok := data.(AssemblyData); !ok {
			return fmt.Errorf("%w: expected AssemblyData, got %T", ErrInvalidData, data)
		}
	}
	return nil
}
