package aistrobot

import (
	"context"
	"strings"
)

// CompletionRequest is a single prompt sent to a completion provider.
type CompletionRequest struct {
	Prompt    string
	MaxTokens int
}

// Choice is one candidate completion returned by a provider.
type Choice struct {
	Text string
}

// Completion is a successful provider response. Choices keep the order the
// provider returned them in.
type Completion struct {
	Choices []Choice
}

// FirstText returns the trimmed text of the first candidate, or an empty
// string when the provider returned no candidates.
func (c *Completion) FirstText() string {
	if c == nil || len(c.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Choices[0].Text)
}

// Completer defines the interface for completion providers.
// All provider implementations (openai, gemini) must implement this interface.
//
// Example usage:
//
//	provider, err := openai.NewProvider(apiKey, openai.Options{Model: "gpt-3.5-turbo-instruct"})
//	completion, err := provider.Complete(ctx, aistrobot.CompletionRequest{Prompt: "Hello", MaxTokens: aistrobot.MaxTokens})
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// CompleterFunc adapts an ordinary function to the Completer interface.
type CompleterFunc func(ctx context.Context, req CompletionRequest) (*Completion, error)

func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	return f(ctx, req)
}
