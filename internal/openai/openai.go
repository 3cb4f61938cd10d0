// Package openai implements aistrobot.Completer on top of OpenAI's legacy
// text completions endpoint.
package openai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"

	"github.com/longkey1/aistrobot/internal/aistrobot"
)

const (
	ProviderName   = "openai"
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = openai.CompletionNewParamsModelGPT3_5TurboInstruct
)

// Options configures the provider. Zero values fall back to the defaults.
type Options struct {
	BaseURL string
	Model   string
}

// Provider implements the aistrobot.Completer interface for OpenAI
type Provider struct {
	client openai.Client
	model  string
}

// NewProvider creates a provider authenticated with apiKey as a bearer
// token. No request is made; an invalid key surfaces on the first Complete.
// The SDK's automatic retries are turned off: a failed request fails once.
func NewProvider(apiKey string, opts Options) *Provider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = string(DefaultModel)
	}

	return &Provider{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		),
		model: model,
	}
}

// Model returns the completion model requests are sent to.
func (p *Provider) Model() string {
	return p.model
}

// Complete sends req.Prompt to the completions endpoint and returns every
// candidate in the order the API returned them.
func (p *Provider) Complete(ctx context.Context, req aistrobot.CompletionRequest) (*aistrobot.Completion, error) {
	params := openai.CompletionNewParams{
		Model: openai.CompletionNewParamsModel(p.model),
		Prompt: openai.CompletionNewParamsPromptUnion{
			OfString: openai.String(req.Prompt),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := p.client.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "error sending completion request")
	}

	completion := &aistrobot.Completion{Choices: make([]aistrobot.Choice, 0, len(resp.Choices))}
	for _, choice := range resp.Choices {
		completion.Choices = append(completion.Choices, aistrobot.Choice{Text: choice.Text})
	}
	return completion, nil
}
