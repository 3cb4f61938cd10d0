package cmd

import (
	"fmt"

	"github.com/longkey1/aistrobot/internal/aistrobot"
	"github.com/longkey1/aistrobot/internal/aistrobot/config"
	"github.com/longkey1/aistrobot/internal/aistrobot/conversation"
	"github.com/longkey1/aistrobot/internal/gemini"
	"github.com/longkey1/aistrobot/internal/openai"
)

// newClientFactory returns the constructor for the provider named in the configured model
func newClientFactory(cfg *config.Config) (conversation.ClientFactory, error) {
	provider, err := cfg.GetProvider()
	if err != nil {
		return nil, err
	}
	model, err := cfg.GetModelName()
	if err != nil {
		return nil, err
	}

	switch provider {
	case openai.ProviderName, gemini.ProviderName:
	default:
		return nil, fmt.Errorf("%w: %s (supported: %s, %s)", aistrobot.ErrUnsupportedProvider, provider, openai.ProviderName, gemini.ProviderName)
	}

	baseURL, err := cfg.GetBaseURL(provider)
	if err != nil {
		return nil, err
	}

	if provider == gemini.ProviderName {
		return func(apiKey string) (aistrobot.Completer, error) {
			return gemini.NewProvider(apiKey, gemini.Options{BaseURL: baseURL, Model: model}), nil
		}, nil
	}
	return func(apiKey string) (aistrobot.Completer, error) {
		return openai.NewProvider(apiKey, openai.Options{BaseURL: baseURL, Model: model}), nil
	}, nil
}
