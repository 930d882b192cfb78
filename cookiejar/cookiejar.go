// cookiejar/cookiejar.go

/* The cookiejar package provides the session cookie jar used when a request is dispatched with
credentials included, and helpers for logging cookies without leaking the refresh cookie. */

package cookiejar

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/deploymenttheory/go-api-auth-interceptor/headers/redact"
	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// NewJar returns an in-memory cookie jar that scopes cookies by registrable domain.
func NewJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// SetupCookieJar initializes the HTTP client with a cookie jar if enabled.
func SetupCookieJar(client *http.Client, enableCookieJar bool, log logger.Logger) error {
	if enableCookieJar {
		jar, err := NewJar()
		if err != nil {
			log.Error("Failed to create cookie jar", zap.Error(err))
			return fmt.Errorf("setupCookieJar failed: %w", err)
		}
		client.Jar = jar
	}
	return nil
}

// sensitiveCookieNames are redacted regardless of the header redaction rules.
var sensitiveCookieNames = map[string]bool{
	"sessionid":     true,
	"refresh_token": true,
	"refreshtoken":  true,
	"token":         true,
}

// RedactSensitiveCookies returns copies of cookies with credential values replaced.
// The input slice is left untouched.
func RedactSensitiveCookies(cookies []*http.Cookie) []*http.Cookie {
	redacted := make([]*http.Cookie, 0, len(cookies))
	for _, cookie := range cookies {
		c := *cookie
		if sensitiveCookieNames[strings.ToLower(c.Name)] {
			c.Value = redact.Redacted
		}
		redacted = append(redacted, &c)
	}
	return redacted
}

// CookiesFromHeader converts the Set-Cookie values of a response header into cookies.
func CookiesFromHeader(header http.Header) []*http.Cookie {
	cookies := []*http.Cookie{}
	for _, cookieHeader := range header.Values("Set-Cookie") {
		if cookie := ParseCookieHeader(cookieHeader); cookie != nil {
			cookies = append(cookies, cookie)
		}
	}
	return cookies
}

// ParseCookieHeader parses a single Set-Cookie header and returns its name and value.
func ParseCookieHeader(header string) *http.Cookie {
	nameValue, _, _ := strings.Cut(header, ";")
	name, value, ok := strings.Cut(strings.TrimSpace(nameValue), "=")
	if !ok || name == "" {
		return nil
	}
	return &http.Cookie{Name: name, Value: value}
}

// LogSetCookies writes the cookies a response sets at debug level, redacting credentials
// when hideSensitiveData is set.
func LogSetCookies(log logger.Logger, resp *http.Response, hideSensitiveData bool) {
	if log == nil || resp == nil || log.GetLogLevel() > logger.LogLevelDebug {
		return
	}
	cookies := CookiesFromHeader(resp.Header)
	if len(cookies) == 0 {
		return
	}
	if hideSensitiveData {
		cookies = RedactSensitiveCookies(cookies)
	}
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name+"="+c.Value)
	}
	log.Debug("Response set cookies", zap.Strings("cookies", names))
}
