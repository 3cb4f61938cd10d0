// Package aistrobot provides the core types shared by the chat client:
// conversation turns, the Completer abstraction that completion providers
// implement, and the model string helpers used by the configuration layer.
package aistrobot

import (
	"fmt"
	"strings"
)

// MaxTokens caps the number of generated tokens per completion request.
// It is an upper bound on the response size, not a target length.
const MaxTokens = 500

// ParseModelString parses a model string in "provider:model" format.
// Returns (provider, model, error).
//
// Example:
//
//	provider, model, err := ParseModelString("openai:gpt-3.5-turbo-instruct")
//	// provider = "openai", model = "gpt-3.5-turbo-instruct"
func ParseModelString(modelStr string) (string, string, error) {
	parts := strings.SplitN(modelStr, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid model format: %s (expected format: provider:model, e.g., openai:gpt-3.5-turbo-instruct)", modelStr)
	}

	provider := strings.TrimSpace(parts[0])
	model := strings.TrimSpace(parts[1])

	if provider == "" || model == "" {
		return "", "", fmt.Errorf("provider and model cannot be empty")
	}

	return provider, model, nil
}

// FormatModelString formats provider and model into "provider:model" format.
func FormatModelString(provider, model string) string {
	return fmt.Sprintf("%s:%s", provider, model)
}
