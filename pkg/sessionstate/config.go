package sessionstate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/sessionstate/pkg/config"
)

// Config holds session state store configuration.
type Config struct {
	// Name identifies the store in logs (default: "SessionStateStore").
	Name string `env:"SESSION_STATE_NAME" envDefault:"SessionStateStore"`

	// ApplicationName namespaces every record key. When blank, the hosting
	// environment's application path is used.
	ApplicationName string `env:"SESSION_STATE_APPLICATION_NAME"`

	// ConnectionStringName selects an entry of ConnectionStrings. Required
	// unless a DocumentStore is injected with WithDocumentStore.
	ConnectionStringName string `env:"SESSION_STATE_CONNECTION_STRING_NAME"`

	// ConnectionStrings maps names to backend URLs, e.g.
	// "main=mongodb://localhost:27017;cache=redis://localhost:6379/0".
	ConnectionStrings map[string]string `env:"SESSION_STATE_CONNECTION_STRINGS" envSeparator:";" envKeyValSeparator:"="`

	// Timeout is the session lifetime used whenever an operation computes a
	// new expiry without an explicit timeout.
	Timeout time.Duration `env:"SESSION_STATE_TIMEOUT" envDefault:"20m"`

	Mode                       Mode       `env:"SESSION_STATE_MODE" envDefault:"read_write"`
	Cookieless                 CookieMode `env:"SESSION_STATE_COOKIELESS" envDefault:"use_cookies"`
	RegenerateExpiredSessionID bool       `env:"SESSION_STATE_REGENERATE_EXPIRED_ID" envDefault:"false"`

	// Database is the MongoDB database. Empty means the database named in the
	// connection URL, or "session_state" if the URL names none.
	Database string `env:"SESSION_STATE_DATABASE"`

	// Collection is the MongoDB collection holding session documents.
	Collection string `env:"SESSION_STATE_COLLECTION" envDefault:"session_state"`

	// KeyPrefix namespaces Redis keys (default: DefaultRedisKeyPrefix).
	KeyPrefix string `env:"SESSION_STATE_KEY_PREFIX" envDefault:"sessionstate:"`
}

// DefaultConfig returns the env defaults.
func DefaultConfig() Config {
	return Config{
		Name:       DefaultName,
		Timeout:    20 * time.Minute,
		Mode:       ModeReadWrite,
		Cookieless: CookieModeUseCookies,
		Collection: "session_state",
		KeyPrefix:  DefaultRedisKeyPrefix,
	}
}

// LoadConfig reads Config from the environment and the .env file. The result
// is cached for the life of the process.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, errors.Join(ErrConfiguration, err)
	}
	return cfg, nil
}

// DefaultName is the store name used when Config.Name is blank.
const DefaultName = "SessionStateStore"

// Mode is the session state mode of the current request handler.
type Mode int

const (
	ModeDisabled Mode = iota
	ModeReadOnly
	ModeReadWrite
)

func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "disabled"
	case ModeReadOnly:
		return "read_only"
	case ModeReadWrite:
		return "read_write"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a session mode. "true" and "false" are accepted as aliases
// for read_write and disabled.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disabled", "false", "off":
		return ModeDisabled, nil
	case "read_only", "readonly":
		return ModeReadOnly, nil
	case "read_write", "readwrite", "true", "on":
		return ModeReadWrite, nil
	}
	return ModeDisabled, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// CookieMode is how the host transports the session id.
type CookieMode int

const (
	CookieModeUseCookies CookieMode = iota
	CookieModeUseURI
	CookieModeAutoDetect
	CookieModeUseDeviceProfile
)

func (c CookieMode) String() string {
	switch c {
	case CookieModeUseCookies:
		return "use_cookies"
	case CookieModeUseURI:
		return "use_uri"
	case CookieModeAutoDetect:
		return "auto_detect"
	case CookieModeUseDeviceProfile:
		return "use_device_profile"
	default:
		return fmt.Sprintf("CookieMode(%d)", int(c))
	}
}

// ParseCookieMode parses a cookie mode. "false" and "true" are accepted as
// aliases for use_cookies and use_uri.
func ParseCookieMode(s string) (CookieMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "use_cookies", "usecookies", "false":
		return CookieModeUseCookies, nil
	case "use_uri", "useuri", "true":
		return CookieModeUseURI, nil
	case "auto_detect", "autodetect":
		return CookieModeAutoDetect, nil
	case "use_device_profile", "usedeviceprofile":
		return CookieModeUseDeviceProfile, nil
	}
	return CookieModeUseCookies, fmt.Errorf("%w: %q", ErrInvalidCookieMode, s)
}

func (c *CookieMode) UnmarshalText(text []byte) error {
	v, err := ParseCookieMode(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c CookieMode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
