package sessionstate

import "strings"

// HostSettings exposes the host framework's session configuration. It is
// consulted on every call, so a host may change modes at runtime.
type HostSettings interface {
	// SessionMode reports the session state mode of the current handler.
	SessionMode() (Mode, error)
	// CookieMode reports how the session id travels between requests.
	CookieMode() (CookieMode, error)
	// RegenerateExpiredSessionID reports whether the host issues a fresh id
	// when a request carries an expired one.
	RegenerateExpiredSessionID() bool
}

// HostingEnvironment describes the application the store runs in.
type HostingEnvironment interface {
	// ApplicationPath is the virtual path of the hosted application.
	ApplicationPath() string
}

// StaticHost serves fixed settings. It backs both HostSettings and
// HostingEnvironment when the host supplies neither.
type StaticHost struct {
	State      Mode
	Cookieless CookieMode
	Regenerate bool
	AppPath    string
}

var (
	_ HostSettings       = StaticHost{}
	_ HostingEnvironment = StaticHost{}
)

// NewStaticHost builds a StaticHost from cfg with application path "/".
func NewStaticHost(cfg Config) StaticHost {
	return StaticHost{
		State:      cfg.Mode,
		Cookieless: cfg.Cookieless,
		Regenerate: cfg.RegenerateExpiredSessionID,
		AppPath:    "/",
	}
}

func (h StaticHost) SessionMode() (Mode, error) { return h.State, nil }

func (h StaticHost) CookieMode() (CookieMode, error) { return h.Cookieless, nil }

func (h StaticHost) RegenerateExpiredSessionID() bool { return h.Regenerate }

func (h StaticHost) ApplicationPath() string {
	if h.AppPath == "" {
		return "/"
	}
	return h.AppPath
}

// cookielessActive reports whether fetches must propagate and clear the
// InitializeItem flag: the id travels in the URL and expired ids are
// regenerated.
func cookielessActive(h HostSettings) (bool, error) {
	mode, err := h.CookieMode()
	if err != nil {
		return false, err
	}
	return mode == CookieModeUseURI && h.RegenerateExpiredSessionID(), nil
}

func resolveApplicationName(name string, env HostingEnvironment) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	if env == nil {
		return "/"
	}
	return env.ApplicationPath()
}
