package authclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/deploymenttheory/go-api-auth-interceptor/cookiejar"
	"github.com/deploymenttheory/go-api-auth-interceptor/headers"
	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"github.com/deploymenttheory/go-api-auth-interceptor/proxy"
	"github.com/deploymenttheory/go-api-auth-interceptor/redirecthandler"
	"github.com/deploymenttheory/go-api-auth-interceptor/status"
	"go.uber.org/zap"
)

// FetchFunc is the network primitive the interceptor wraps: it sends one request described by
// target and opts and returns the response, or an error when no response was received.
type FetchFunc func(ctx context.Context, target Target, opts *RequestOptions) (*http.Response, error)

// Dispatcher is the unwrapped network primitive. It owns two http.Clients over one transport,
// one carrying the session cookie jar and one without, and picks between them per request
// according to the credentials mode.
type Dispatcher struct {
	pageOrigin        string
	withCredentials   *http.Client
	withoutCookies    *http.Client
	log               logger.Logger
	hideSensitiveData bool
}

// NewDispatcher builds the primitive from config. A nil config.Transport uses a clone of
// http.DefaultTransport, routed through config.ProxyURL when one is set.
func NewDispatcher(config ClientConfig, log logger.Logger) (*Dispatcher, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	transport := config.Transport
	if transport == nil {
		defaultTransport := http.DefaultTransport.(*http.Transport).Clone()
		if err := proxy.ConfigureProxy(defaultTransport, config.ProxyURL, config.ProxyUsername, config.ProxyPassword, log); err != nil {
			return nil, fmt.Errorf("configure proxy: %w", err)
		}
		transport = defaultTransport
	}

	withCredentials := &http.Client{Transport: transport, Timeout: config.CustomTimeout}
	if err := cookiejar.SetupCookieJar(withCredentials, true, log); err != nil {
		return nil, err
	}
	withoutCookies := &http.Client{Transport: transport, Timeout: config.CustomTimeout}

	for _, client := range []*http.Client{withCredentials, withoutCookies} {
		if err := redirecthandler.SetupRedirectHandler(client, config.FollowRedirects, config.MaxRedirects, log); err != nil {
			return nil, fmt.Errorf("configure redirects: %w", err)
		}
	}

	return &Dispatcher{
		pageOrigin:        config.PageOrigin,
		withCredentials:   withCredentials,
		withoutCookies:    withoutCookies,
		log:               log,
		hideSensitiveData: config.HideSensitiveData,
	}, nil
}

// Jar exposes the session cookie jar.
func (d *Dispatcher) Jar() http.CookieJar {
	return d.withCredentials.Jar
}

// Fetch sends the request. Relative targets resolve against the page origin. Method, header
// and body come from opts first and fall back to the RequestTarget descriptor.
func (d *Dispatcher) Fetch(ctx context.Context, target Target, opts *RequestOptions) (*http.Response, error) {
	requestURL, err := resolveAgainst(d.pageOrigin, NormalizeTarget(target))
	if err != nil {
		return nil, fmt.Errorf("resolve request target: %w", err)
	}

	descriptor := requestOf(target)
	method := methodOf(target, opts)

	var body io.Reader
	bodyFromDescriptor := false
	switch {
	case opts != nil && opts.Body != nil:
		body = bytes.NewReader(opts.Body)
	case descriptor != nil && descriptor.Body != nil && descriptor.Body != http.NoBody:
		body = descriptor.Body
		bodyFromDescriptor = true
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	switch {
	case opts != nil && opts.Header != nil:
		req.Header = headers.CloneHeader(opts.Header)
	case descriptor != nil && descriptor.Header != nil:
		req.Header = headers.CloneHeader(descriptor.Header)
	}
	if bodyFromDescriptor {
		req.ContentLength = descriptor.ContentLength
	}

	resp, err := d.clientFor(opts.credentials(), requestURL.String()).Do(req)
	if err != nil {
		return nil, err
	}
	cookiejar.LogSetCookies(d.log, resp, d.hideSensitiveData)
	if status.IsRedirectStatusCode(resp.StatusCode) {
		d.log.Debug("Redirect returned to caller",
			zap.Int("status_code", resp.StatusCode),
			zap.String("url", requestURL.String()),
			zap.String("location", resp.Header.Get("Location")),
		)
	}
	return resp, nil
}

// clientFor returns the client matching the credentials mode. same-origin only sends
// cookies when the request shares the page origin.
func (d *Dispatcher) clientFor(mode CredentialsMode, requestURL string) *http.Client {
	switch mode {
	case CredentialsInclude:
		return d.withCredentials
	case CredentialsOmit:
		return d.withoutCookies
	default:
		target, err := resolveAgainst(d.pageOrigin, requestURL)
		if err != nil {
			return d.withoutCookies
		}
		page, err := resolveAgainst(d.pageOrigin, d.pageOrigin)
		if err != nil || originOf(target) != originOf(page) {
			return d.withoutCookies
		}
		return d.withCredentials
	}
}

// methodOf applies the method precedence: options, then the request descriptor, then GET.
func methodOf(target Target, opts *RequestOptions) string {
	if opts != nil && opts.Method != "" {
		return opts.Method
	}
	if req := requestOf(target); req != nil && req.Method != "" {
		return req.Method
	}
	return http.MethodGet
}
