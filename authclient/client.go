// authclient/client.go
/* The `authclient` package attaches a stored session token to requests bound for one protected API,
refreshes the session once when the API answers 401, and sends the user to the login location when
the session cannot be recovered. Requests to any other origin pass through untouched. The main `Client`
structure wires the credential store, the interceptor and the underlying network primitive together. */
package authclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/deploymenttheory/go-api-auth-interceptor/credentialstore"
	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"github.com/deploymenttheory/go-api-auth-interceptor/metrics"
	"github.com/deploymenttheory/go-api-auth-interceptor/navigation"
	"go.uber.org/zap"
)

// Client is the entry point applications hold on to.
type Client struct {
	config      ClientConfig
	store       *credentialstore.Store
	dispatcher  *Dispatcher
	interceptor *Interceptor
	fetch       FetchFunc
	http        *http.Client

	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// BuildClient creates a Client from config and installs its interceptor over the default
// network primitive.
func BuildClient(config ClientConfig, populateDefaultValues bool) (*Client, error) {
	if populateDefaultValues {
		SetDefaultValuesClientConfig(&config)
	}
	if err := validateClientConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	//region Logging

	log := config.Logger
	if log == nil {
		parsedLogLevel := logger.ParseLogLevelFromString(config.LogLevel)
		log = logger.BuildLogger(parsedLogLevel, config.LogOutputFormat, config.LogConsoleSeparator)
		log.SetLevel(parsedLogLevel)
	}

	//endregion

	//region Collaborators

	store := credentialstore.NewStore(config.Storage, log)

	navigator := config.Navigator
	if navigator == nil {
		navigator = navigation.Func(func(location string) {
			log.Info("Navigation requested", zap.String("location", location))
		})
	}

	clientMetrics := metrics.New(config.MetricsRegisterer)

	//endregion

	//region HTTP

	dispatcher, err := NewDispatcher(config, log)
	if err != nil {
		log.Error("Failed to set up network primitive", zap.Error(err))
		return nil, err
	}

	interceptor := NewInterceptor(config, store, navigator, log, clientMetrics)
	fetch := interceptor.Install(dispatcher.Fetch)

	// Redirects are followed by the dispatcher's own policy only.
	httpClient := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	if err := interceptor.InstallOn(httpClient); err != nil {
		return nil, err
	}

	//endregion

	client := &Client{
		config:      config,
		store:       store,
		dispatcher:  dispatcher,
		interceptor: interceptor,
		fetch:       fetch,
		http:        httpClient,
		Logger:      log,
		Metrics:     clientMetrics,
	}

	log.Debug("New auth client initialized",
		zap.String("API Base URL", config.APIBaseURL),
		zap.String("Page Origin", config.PageOrigin),
		zap.String("Login Location", config.LoginLocation),
		zap.String("Refresh URL", config.APIURL(config.RefreshEndpoint)),
		zap.String("Logout URL", config.APIURL(config.LogoutEndpoint)),
		zap.String("Logging Level", config.LogLevel),
		zap.String("Log Encoding Format", config.LogOutputFormat),
		zap.Bool("Hide Sensitive Data In Logs", config.HideSensitiveData),
		zap.Bool("Logout Clears All Storage", config.LogoutClearsAllStorage),
		zap.Bool("Follow Redirects", config.FollowRedirects),
		zap.Int("Max Redirects", config.MaxRedirects),
		zap.Duration("Custom Timeout", config.CustomTimeout),
		zap.Duration("Refresh Timeout", config.RefreshTimeout),
	)

	return client, nil
}

// Fetch sends one request through the interceptor.
func (c *Client) Fetch(ctx context.Context, target Target, opts *RequestOptions) (*http.Response, error) {
	return c.fetch(ctx, target, opts)
}

// Do sends req through the interceptor using the request's own method, headers and body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.http.Do(req)
}

// HTTPClient returns an *http.Client whose transport is the interceptor.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// InstallOn routes an application-owned *http.Client through the interceptor.
func (c *Client) InstallOn(client *http.Client) error {
	return c.interceptor.InstallOn(client)
}

// Install returns the intercepting FetchFunc. It never wraps more than once.
func (c *Client) Install() FetchFunc {
	return c.interceptor.Install(c.dispatcher.Fetch)
}

// ProtectPage reports whether the current session may see a page requiring role.
func (c *Client) ProtectPage(ctx context.Context, role string) bool {
	return c.interceptor.ProtectPage(ctx, role)
}

// Logout ends the session and navigates to the login location.
func (c *Client) Logout(ctx context.Context) {
	c.interceptor.Logout(ctx)
}

// Store returns the credential store, e.g. for the login flow to call SetSession.
func (c *Client) Store() *credentialstore.Store {
	return c.store
}

// Interceptor exposes the interceptor state.
func (c *Client) Interceptor() *Interceptor {
	return c.interceptor
}

// Config returns the effective configuration.
func (c *Client) Config() ClientConfig {
	return c.config
}
