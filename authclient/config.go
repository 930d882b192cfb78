// authclient/config.go
// Description: client configuration, defaults, and loading from a JSON file or environment variables.
package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/deploymenttheory/go-api-auth-interceptor/credentialstore"
	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"github.com/deploymenttheory/go-api-auth-interceptor/navigation"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultLogLevelString         = "LogLevelInfo"
	DefaultLogOutputFormatString  = "pretty"
	DefaultLogConsoleSeparator    = "	"
	DefaultLoginLocation          = navigation.DefaultLoginLocation
	DefaultRefreshEndpoint        = "auth/refresh"
	DefaultLogoutEndpoint         = "auth/logout"
	DefaultExpiredMessage         = "Login session expired. Please log in again."
	DefaultCustomTimeout          = 10 * time.Second
	DefaultRefreshTimeout         = 0 // no deadline beyond CustomTimeout
	DefaultFollowRedirects        = false
	DefaultMaxRedirects           = 10
	DefaultHideSensitiveData      = true
	DefaultLogoutClearsAllStorage = false
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ClientConfig holds everything BuildClient needs. The exported collaborator fields at the
// end are not serialised; leave them nil to get the defaults.
type ClientConfig struct {
	// API
	APIBaseURL             string // base of the protected API, e.g. https://api.example.com
	PageOrigin             string // origin relative request targets resolve against; defaults to the API origin
	LoginLocation          string // where unrecoverable auth failures navigate to
	RefreshEndpoint        string // logical endpoint passed to APIURL for the refresh call
	LogoutEndpoint         string // logical endpoint passed to APIURL for the logout call
	DefaultExpiredMessage  string // used when a 401 body carries no message
	LogoutClearsAllStorage bool   // wipe the whole storage backend on logout instead of only the session keys

	// Timeouts
	CustomTimeout  time.Duration // per-dispatch timeout of the underlying http.Client
	RefreshTimeout time.Duration // optional deadline on the shared refresh call

	// Redirects. When FollowRedirects is false net/http's own policy applies.
	FollowRedirects bool
	MaxRedirects    int

	// Proxy. Applies to the transport the dispatcher builds when Transport is nil.
	ProxyURL      string
	ProxyUsername string
	ProxyPassword string `json:"-"`

	// Log
	LogLevel            string
	LogOutputFormat     string // "json" or "pretty"
	LogConsoleSeparator string
	HideSensitiveData   bool

	// Collaborators
	Storage           credentialstore.Storage `json:"-"`
	Navigator         navigation.Navigator    `json:"-"`
	Logger            logger.Logger           `json:"-"`
	MetricsRegisterer prometheus.Registerer   `json:"-"`
	Transport         http.RoundTripper       `json:"-"`
}

// APIURL maps a logical endpoint name onto the API base, tolerating a leading slash on
// the endpoint and a trailing slash on the base.
func (c ClientConfig) APIURL(endpoint string) string {
	cleanEndpoint := strings.TrimPrefix(endpoint, "/")
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(c.APIBaseURL, "/"), cleanEndpoint)
}

// LoadConfigFromFile loads client configuration settings from a JSON file.
func LoadConfigFromFile(filepath string) (*ClientConfig, error) {
	absPath, err := validateFilePath(filepath)
	if err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	byteValue, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("could not read file: %w", err)
	}

	var config ClientConfig
	if err := json.Unmarshal(byteValue, &config); err != nil {
		return nil, fmt.Errorf("could not unmarshal JSON: %w", err)
	}

	SetDefaultValuesClientConfig(&config)

	return &config, nil
}

// LoadConfigFromEnv loads client configuration settings from environment variables.
// Unset variables fall back to the defaults defined in the constants above.
func LoadConfigFromEnv() (*ClientConfig, error) {
	config := &ClientConfig{
		APIBaseURL:             getEnvAsString("AUTH_API_BASE_URL", ""),
		PageOrigin:             getEnvAsString("AUTH_PAGE_ORIGIN", ""),
		LoginLocation:          getEnvAsString("AUTH_LOGIN_LOCATION", DefaultLoginLocation),
		RefreshEndpoint:        getEnvAsString("AUTH_REFRESH_ENDPOINT", DefaultRefreshEndpoint),
		LogoutEndpoint:         getEnvAsString("AUTH_LOGOUT_ENDPOINT", DefaultLogoutEndpoint),
		DefaultExpiredMessage:  getEnvAsString("AUTH_DEFAULT_EXPIRED_MESSAGE", DefaultExpiredMessage),
		LogoutClearsAllStorage: getEnvAsBool("AUTH_LOGOUT_CLEARS_ALL_STORAGE", DefaultLogoutClearsAllStorage),
		CustomTimeout:          getEnvAsDuration("AUTH_CUSTOM_TIMEOUT", DefaultCustomTimeout),
		RefreshTimeout:         getEnvAsDuration("AUTH_REFRESH_TIMEOUT", DefaultRefreshTimeout),
		FollowRedirects:        getEnvAsBool("AUTH_FOLLOW_REDIRECTS", DefaultFollowRedirects),
		MaxRedirects:           getEnvAsInt("AUTH_MAX_REDIRECTS", DefaultMaxRedirects),
		ProxyURL:               getEnvAsString("AUTH_PROXY_URL", ""),
		ProxyUsername:          getEnvAsString("AUTH_PROXY_USERNAME", ""),
		ProxyPassword:          getEnvAsString("AUTH_PROXY_PASSWORD", ""),
		LogLevel:               getEnvAsString("AUTH_LOG_LEVEL", DefaultLogLevelString),
		LogOutputFormat:        getEnvAsString("AUTH_LOG_OUTPUT_FORMAT", DefaultLogOutputFormatString),
		LogConsoleSeparator:    getEnvAsString("AUTH_LOG_CONSOLE_SEPARATOR", DefaultLogConsoleSeparator),
		HideSensitiveData:      getEnvAsBool("AUTH_HIDE_SENSITIVE_DATA", DefaultHideSensitiveData),
	}

	return config, nil
}

// SetDefaultValuesClientConfig fills every empty field with its default.
// Booleans are left alone; their zero value is a valid choice.
func SetDefaultValuesClientConfig(config *ClientConfig) {
	setDefaultString(&config.LoginLocation, DefaultLoginLocation)
	setDefaultString(&config.RefreshEndpoint, DefaultRefreshEndpoint)
	setDefaultString(&config.LogoutEndpoint, DefaultLogoutEndpoint)
	setDefaultString(&config.DefaultExpiredMessage, DefaultExpiredMessage)
	setDefaultString(&config.LogLevel, DefaultLogLevelString)
	setDefaultString(&config.LogOutputFormat, DefaultLogOutputFormatString)
	setDefaultString(&config.LogConsoleSeparator, DefaultLogConsoleSeparator)
	setDefaultDuration(&config.CustomTimeout, DefaultCustomTimeout)
	setDefaultInt(&config.MaxRedirects, DefaultMaxRedirects, 1)

	if config.PageOrigin == "" && config.APIBaseURL != "" {
		if u, err := url.Parse(config.APIBaseURL); err == nil && u.Host != "" {
			config.PageOrigin = u.Scheme + "://" + u.Host
		}
	}
}

func validateClientConfig(config ClientConfig) error {
	if config.APIBaseURL == "" {
		return errors.New("api base url is required")
	}

	base, err := url.Parse(config.APIBaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("api base url must be absolute: %q", config.APIBaseURL)
	}

	if config.PageOrigin != "" {
		origin, err := url.Parse(config.PageOrigin)
		if err != nil || origin.Scheme == "" || origin.Host == "" {
			return fmt.Errorf("page origin must be absolute: %q", config.PageOrigin)
		}
	}

	if config.ProxyURL != "" {
		proxyURL, err := url.Parse(config.ProxyURL)
		if err != nil || proxyURL.Scheme == "" || proxyURL.Host == "" {
			return fmt.Errorf("proxy url must be absolute: %q", config.ProxyURL)
		}
	}

	if config.LoginLocation == "" {
		return errors.New("login location cannot be empty")
	}

	validLogLevels := []string{
		"LogLevelDebug",
		"LogLevelInfo",
		"LogLevelWarn",
		"LogLevelError",
		"LogLevelDPanic",
		"LogLevelPanic",
		"LogLevelFatal",
	}
	if config.Logger == nil && !slices.Contains(validLogLevels, config.LogLevel) {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	validLogFormats := []string{
		logger.LogOutputJSON,
		logger.LogOutputPretty,
	}
	if config.Logger == nil && !slices.Contains(validLogFormats, config.LogOutputFormat) {
		return fmt.Errorf("invalid log output format: %s", config.LogOutputFormat)
	}

	if config.CustomTimeout < 0 {
		return errors.New("timeout cannot be less than 0 seconds")
	}

	if config.RefreshTimeout < 0 {
		return errors.New("refresh timeout cannot be less than 0 seconds")
	}

	if config.FollowRedirects && config.MaxRedirects < 1 {
		return errors.New("max redirects cannot be less than 1")
	}

	return nil
}
