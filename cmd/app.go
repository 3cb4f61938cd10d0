package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/longkey1/aistrobot/internal/aistrobot/config"
	"github.com/longkey1/aistrobot/internal/aistrobot/conversation"
	"github.com/longkey1/aistrobot/internal/aistrobot/settings"
	"github.com/longkey1/aistrobot/internal/logger"
)

// app bundles what every command needs: configuration, the settings store
// holding the credential, and the conversation controller.
type app struct {
	cfg          *config.Config
	settingsPath string
	store        settings.Store
	creds        *settings.CredentialStore
	controller   *conversation.Controller
}

func newApp(opts ...conversation.Option) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	settingsPath, err := cfg.GetSettingsPath(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("locating settings: %w", err)
	}

	store, err := settings.Open(cfg.SettingsBackend, settingsPath)
	if err != nil {
		return nil, fmt.Errorf("opening settings: %w", err)
	}

	factory, err := newClientFactory(cfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	creds := settings.NewCredentialStore(store)
	opts = append([]conversation.Option{conversation.WithLogger(logger.For("conversation"))}, opts...)

	return &app{
		cfg:          cfg,
		settingsPath: settingsPath,
		store:        store,
		creds:        creds,
		controller:   conversation.New(factory, creds, opts...),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
