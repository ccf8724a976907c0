package sessionstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticHost(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Mode = ModeReadOnly
	cfg.Cookieless = CookieModeUseURI
	cfg.RegenerateExpiredSessionID = true

	h := NewStaticHost(cfg)
	mode, err := h.SessionMode()
	require.NoError(t, err)
	assert.Equal(t, ModeReadOnly, mode)
	assert.Equal(t, "/", h.ApplicationPath())
	assert.Equal(t, "/", StaticHost{}.ApplicationPath())
}

func TestCookielessActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode       CookieMode
		regenerate bool
		want       bool
	}{
		{CookieModeUseURI, true, true},
		{CookieModeUseURI, false, false},
		{CookieModeUseCookies, true, false},
		{CookieModeAutoDetect, true, false},
		{CookieModeUseDeviceProfile, true, false},
	}
	for _, tt := range tests {
		got, err := cookielessActive(StaticHost{Cookieless: tt.mode, Regenerate: tt.regenerate})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s regenerate=%v", tt.mode, tt.regenerate)
	}
}

func TestResolveApplicationName(t *testing.T) {
	t.Parallel()

	env := StaticHost{AppPath: "/billing"}
	assert.Equal(t, "shop", resolveApplicationName("shop", env))
	assert.Equal(t, "/billing", resolveApplicationName("", env))
	assert.Equal(t, "/billing", resolveApplicationName(" \t", env))
	assert.Equal(t, "/", resolveApplicationName("", nil))
}
