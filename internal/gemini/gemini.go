// Package gemini implements aistrobot.Completer with Google's Gemini API.
package gemini

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/longkey1/aistrobot/internal/aistrobot"
)

const (
	ProviderName   = "gemini"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/"
	DefaultModel   = "gemini-2.0-flash"
)

// Options configures the provider. Zero values fall back to the defaults.
type Options struct {
	BaseURL string
	Model   string
}

// Provider implements the aistrobot.Completer interface for Gemini.
// The underlying client is created on the first request, so a provider can
// be built with any key, including an empty one.
type Provider struct {
	config *genai.ClientConfig
	model  string

	once      sync.Once
	client    *genai.Client
	clientErr error
}

// NewProvider creates a Gemini provider keyed with apiKey. No network call
// is made and no validation happens until Complete.
func NewProvider(apiKey string, opts Options) *Provider {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Provider{config: cfg, model: model}
}

// Model returns the model requests are sent to.
func (p *Provider) Model() string {
	return p.model
}

func (p *Provider) connect(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		p.client, p.clientErr = genai.NewClient(ctx, p.config)
		if p.clientErr != nil {
			p.clientErr = errors.Wrap(p.clientErr, "error creating gemini client")
		}
	})
	return p.client, p.clientErr
}

// Complete generates content for req.Prompt. Each response candidate becomes
// one choice whose text joins the candidate's text parts.
func (p *Provider) Complete(ctx context.Context, req aistrobot.CompletionRequest) (*aistrobot.Completion, error) {
	client, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, errors.Wrap(err, "error sending generate content request")
	}

	completion := &aistrobot.Completion{Choices: make([]aistrobot.Choice, 0, len(resp.Candidates))}
	for _, candidate := range resp.Candidates {
		completion.Choices = append(completion.Choices, aistrobot.Choice{Text: candidateText(candidate)})
	}
	return completion, nil
}

func candidateText(candidate *genai.Candidate) string {
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
