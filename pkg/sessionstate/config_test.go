package sessionstate_test

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstate/pkg/config"
	"github.com/dmitrymomot/sessionstate/pkg/sessionstate"
)

func TestDefaultConfigMatchesEnvDefaults(t *testing.T) {
	var parsed sessionstate.Config
	require.NoError(t, env.Parse(&parsed))
	assert.Equal(t, sessionstate.DefaultConfig(), parsed)
}

func TestConfig_FromEnv(t *testing.T) {
	t.Setenv("SESSION_STATE_APPLICATION_NAME", "/shop")
	t.Setenv("SESSION_STATE_CONNECTION_STRING_NAME", "main")
	t.Setenv("SESSION_STATE_CONNECTION_STRINGS", "main=mongodb://localhost:27017/app;cache=redis://localhost:6379/0")
	t.Setenv("SESSION_STATE_TIMEOUT", "45m")
	t.Setenv("SESSION_STATE_MODE", "read_only")
	t.Setenv("SESSION_STATE_COOKIELESS", "use_uri")
	t.Setenv("SESSION_STATE_REGENERATE_EXPIRED_ID", "true")

	var cfg sessionstate.Config
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "/shop", cfg.ApplicationName)
	assert.Equal(t, "main", cfg.ConnectionStringName)
	assert.Equal(t, map[string]string{
		"main":  "mongodb://localhost:27017/app",
		"cache": "redis://localhost:6379/0",
	}, cfg.ConnectionStrings)
	assert.Equal(t, 45*time.Minute, cfg.Timeout)
	assert.Equal(t, sessionstate.ModeReadOnly, cfg.Mode)
	assert.Equal(t, sessionstate.CookieModeUseURI, cfg.Cookieless)
	assert.True(t, cfg.RegenerateExpiredSessionID)
}

func TestLoadConfig(t *testing.T) {
	config.ResetCache()
	t.Cleanup(config.ResetCache)

	t.Setenv("SESSION_STATE_APPLICATION_NAME", "/billing")
	t.Setenv("SESSION_STATE_KEY_PREFIX", "billing:")

	cfg, err := sessionstate.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/billing", cfg.ApplicationName)
	assert.Equal(t, "billing:", cfg.KeyPrefix)
	assert.Equal(t, 20*time.Minute, cfg.Timeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	config.ResetCache()
	t.Cleanup(config.ResetCache)

	t.Setenv("SESSION_STATE_COOKIELESS", "carrier_pigeon")

	_, err := sessionstate.LoadConfig()
	assert.ErrorIs(t, err, sessionstate.ErrConfiguration)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestConfig_InvalidMode(t *testing.T) {
	t.Setenv("SESSION_STATE_MODE", "sometimes")

	var cfg sessionstate.Config
	err := env.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), sessionstate.ErrInvalidMode.Error())
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want sessionstate.Mode
	}{
		{"disabled", sessionstate.ModeDisabled},
		{"false", sessionstate.ModeDisabled},
		{"read_only", sessionstate.ModeReadOnly},
		{"ReadOnly", sessionstate.ModeReadOnly},
		{"read_write", sessionstate.ModeReadWrite},
		{" true ", sessionstate.ModeReadWrite},
	}
	for _, tt := range tests {
		got, err := sessionstate.ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := sessionstate.ParseMode("maybe")
	assert.ErrorIs(t, err, sessionstate.ErrInvalidMode)
}

func TestParseCookieMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want sessionstate.CookieMode
	}{
		{"use_cookies", sessionstate.CookieModeUseCookies},
		{"UseUri", sessionstate.CookieModeUseURI},
		{"true", sessionstate.CookieModeUseURI},
		{"auto_detect", sessionstate.CookieModeAutoDetect},
		{"use_device_profile", sessionstate.CookieModeUseDeviceProfile},
	}
	for _, tt := range tests {
		got, err := sessionstate.ParseCookieMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := sessionstate.ParseCookieMode("carrier_pigeon")
	assert.ErrorIs(t, err, sessionstate.ErrInvalidCookieMode)
}

func TestModeText(t *testing.T) {
	t.Parallel()

	for _, m := range []sessionstate.Mode{sessionstate.ModeDisabled, sessionstate.ModeReadOnly, sessionstate.ModeReadWrite} {
		text, err := m.MarshalText()
		require.NoError(t, err)

		var back sessionstate.Mode
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, m, back)
	}
	assert.Equal(t, "Mode(9)", sessionstate.Mode(9).String())
}
