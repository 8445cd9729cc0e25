package app_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/laravel-di/framework/app"
	"github.com/km-arc/laravel-di/framework/config"
	"github.com/km-arc/laravel-di/framework/container"
	"github.com/km-arc/laravel-di/framework/diagnostics"
	"github.com/km-arc/laravel-di/framework/providers"
)

func newApp(t *testing.T, mutate func(*config.Config)) (*app.Application, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Name: "Test", Env: "testing", Port: "0"},
		Log: config.LogConfig{Level: "info", Format: "text"},
	}
	if mutate != nil {
		mutate(cfg)
	}
	var buf bytes.Buffer
	return app.NewWithConfig(cfg, diagnostics.NewWithOutput(cfg.Log, &buf)), &buf
}

func TestNewWithConfig_BindsFrameworkServices(t *testing.T) {
	application, _ := newApp(t, nil)

	cfg, ok := application.Make(providers.ConfigType)
	require.True(t, ok)
	assert.Same(t, application.Config, cfg)

	logger, ok := application.Make(providers.LoggerType)
	require.True(t, ok)
	assert.Same(t, application.Logger, logger)

	router, ok := application.Make(providers.RouterType)
	require.True(t, ok)
	assert.Same(t, application.Router, router)
}

func TestNewWithConfig_ProviderContext(t *testing.T) {
	application, _ := newApp(t, func(cfg *config.Config) { cfg.Container.Provider = "testing" })
	assert.Equal(t, "testing", application.Context().Get(container.ProviderKey))

	plain, _ := newApp(t, nil)
	assert.Empty(t, plain.Context())
}

func TestNewWithConfig_FailuresAreLogged(t *testing.T) {
	application, buf := newApp(t, nil)

	_, ok := application.Make("App\\Missing")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "component=container")
	assert.Contains(t, buf.String(), "App\\\\Missing")
}

func TestEnvironmentHelpers(t *testing.T) {
	application, _ := newApp(t, func(cfg *config.Config) { cfg.App.Debug = true })

	assert.True(t, application.IsTesting())
	assert.False(t, application.IsLocal())
	assert.False(t, application.IsProduction())
	assert.True(t, application.IsDebug())
	assert.NotEmpty(t, application.Version())
}

func TestRun_StopsWhenContextDone(t *testing.T) {
	application, _ := newApp(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
