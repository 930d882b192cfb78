package authclient

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIURL(t *testing.T) {
	cases := []struct {
		base     string
		endpoint string
		want     string
	}{
		{base: "https://api.example.com", endpoint: "auth/refresh", want: "https://api.example.com/auth/refresh"},
		{base: "https://api.example.com", endpoint: "/auth/refresh", want: "https://api.example.com/auth/refresh"},
		{base: "https://api.example.com/", endpoint: "auth/logout", want: "https://api.example.com/auth/logout"},
		{base: "https://example.com/api", endpoint: "items", want: "https://example.com/api/items"},
	}
	for _, tc := range cases {
		config := ClientConfig{APIBaseURL: tc.base}
		assert.Equal(t, tc.want, config.APIURL(tc.endpoint))
	}
}

func TestSetDefaultValuesClientConfig(t *testing.T) {
	config := ClientConfig{APIBaseURL: "https://api.example.com/v1"}

	SetDefaultValuesClientConfig(&config)

	assert.Equal(t, "https://api.example.com", config.PageOrigin)
	assert.Equal(t, DefaultLoginLocation, config.LoginLocation)
	assert.Equal(t, DefaultRefreshEndpoint, config.RefreshEndpoint)
	assert.Equal(t, DefaultLogoutEndpoint, config.LogoutEndpoint)
	assert.Equal(t, DefaultExpiredMessage, config.DefaultExpiredMessage)
	assert.Equal(t, DefaultLogLevelString, config.LogLevel)
	assert.Equal(t, DefaultLogOutputFormatString, config.LogOutputFormat)
	assert.Equal(t, DefaultCustomTimeout, config.CustomTimeout)
	assert.Equal(t, DefaultMaxRedirects, config.MaxRedirects)
	assert.False(t, config.LogoutClearsAllStorage)
}

func TestSetDefaultValuesKeepsExplicitValues(t *testing.T) {
	config := ClientConfig{
		APIBaseURL:    "https://api.example.com",
		PageOrigin:    "https://app.example.com",
		LoginLocation: "/signin",
		CustomTimeout: 3 * time.Second,
	}

	SetDefaultValuesClientConfig(&config)

	assert.Equal(t, "https://app.example.com", config.PageOrigin)
	assert.Equal(t, "/signin", config.LoginLocation)
	assert.Equal(t, 3*time.Second, config.CustomTimeout)
}

func TestValidateClientConfig(t *testing.T) {
	valid := func() ClientConfig {
		config := ClientConfig{APIBaseURL: "https://api.example.com"}
		SetDefaultValuesClientConfig(&config)
		return config
	}

	cases := []struct {
		name    string
		mutate  func(c *ClientConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *ClientConfig) {}},
		{name: "missing base", mutate: func(c *ClientConfig) { c.APIBaseURL = "" }, wantErr: true},
		{name: "relative base", mutate: func(c *ClientConfig) { c.APIBaseURL = "/api" }, wantErr: true},
		{name: "relative page origin", mutate: func(c *ClientConfig) { c.PageOrigin = "app.example.com" }, wantErr: true},
		{name: "relative proxy url", mutate: func(c *ClientConfig) { c.ProxyURL = "proxy.internal:3128" }, wantErr: true},
		{name: "proxy url", mutate: func(c *ClientConfig) { c.ProxyURL = "http://proxy.internal:3128" }},
		{name: "empty login location", mutate: func(c *ClientConfig) { c.LoginLocation = "" }, wantErr: true},
		{name: "bad log level", mutate: func(c *ClientConfig) { c.LogLevel = "LogLevelVerbose" }, wantErr: true},
		{name: "bad log level with own logger", mutate: func(c *ClientConfig) {
			c.LogLevel = "LogLevelVerbose"
			c.Logger = logger.NewNopLogger()
		}},
		{name: "bad log format", mutate: func(c *ClientConfig) { c.LogOutputFormat = "xml" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *ClientConfig) { c.CustomTimeout = -time.Second }, wantErr: true},
		{name: "negative refresh timeout", mutate: func(c *ClientConfig) { c.RefreshTimeout = -time.Second }, wantErr: true},
		{name: "follow redirects without limit", mutate: func(c *ClientConfig) {
			c.FollowRedirects = true
			c.MaxRedirects = 0
		}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config := valid()
			tc.mutate(&config)
			err := validateClientConfig(config)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildClient_InvalidConfig(t *testing.T) {
	_, err := BuildClient(ClientConfig{}, true)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "authclient.json")
	content := `{
		"APIBaseURL": "https://api.example.com",
		"LoginLocation": "/signin",
		"RefreshTimeout": 2000000000,
		"LogoutClearsAllStorage": true,
		"LogLevel": "LogLevelDebug"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	config, err := LoadConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", config.APIBaseURL)
	assert.Equal(t, "https://api.example.com", config.PageOrigin)
	assert.Equal(t, "/signin", config.LoginLocation)
	assert.Equal(t, 2*time.Second, config.RefreshTimeout)
	assert.True(t, config.LogoutClearsAllStorage)
	assert.Equal(t, "LogLevelDebug", config.LogLevel)
	assert.Equal(t, DefaultRefreshEndpoint, config.RefreshEndpoint)
}

func TestLoadConfigFromFile_Rejects(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("a: b"), 0o600))
	_, err := LoadConfigFromFile(yamlPath)
	assert.Error(t, err)

	_, err = LoadConfigFromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{"), 0o600))
	_, err = LoadConfigFromFile(badPath)
	assert.Error(t, err)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AUTH_API_BASE_URL", "https://api.example.com")
	t.Setenv("AUTH_LOGIN_LOCATION", "/signin")
	t.Setenv("AUTH_REFRESH_TIMEOUT", "1500ms")
	t.Setenv("AUTH_LOGOUT_CLEARS_ALL_STORAGE", "true")
	t.Setenv("AUTH_MAX_REDIRECTS", "not-a-number")

	config, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", config.APIBaseURL)
	assert.Equal(t, "/signin", config.LoginLocation)
	assert.Equal(t, 1500*time.Millisecond, config.RefreshTimeout)
	assert.True(t, config.LogoutClearsAllStorage)
	assert.Equal(t, DefaultMaxRedirects, config.MaxRedirects)
	assert.Equal(t, DefaultRefreshEndpoint, config.RefreshEndpoint)
	assert.True(t, config.HideSensitiveData)
}
