package authclient

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// authRoutePattern matches the backend endpoints exempt from augmentation and refresh.
var authRoutePattern = regexp.MustCompile(`^/auth/(login|refresh|logout)/?$`)

var errNoHost = errors.New("resolved url has no host")

// Classification says whether a request targets the protected API and whether it hits one
// of the auth route exceptions.
type Classification struct {
	IsAPIRequest bool
	IsAuthRoute  bool
}

// Classifier decides how a request target relates to the configured API.
type Classifier struct {
	pageOrigin string
	apiBaseURL string
}

// NewClassifier returns a Classifier resolving targets against pageOrigin and comparing
// them with apiBaseURL. Both are kept as strings and resolved on every call so a broken
// configuration fails safe instead of failing construction.
func NewClassifier(pageOrigin, apiBaseURL string) *Classifier {
	return &Classifier{pageOrigin: pageOrigin, apiBaseURL: apiBaseURL}
}

// Classify normalizes target and classifies it.
func (c *Classifier) Classify(target Target) Classification {
	return c.ClassifyURL(NormalizeTarget(target))
}

// ClassifyURL classifies a URL string. Any parse failure yields the zero Classification,
// so an unparseable target is never treated as the protected API.
func (c *Classifier) ClassifyURL(rawURL string) Classification {
	requestURL, err := resolveAgainst(c.pageOrigin, rawURL)
	if err != nil {
		return Classification{}
	}
	apiURL, err := resolveAgainst(c.pageOrigin, c.apiBaseURL)
	if err != nil {
		return Classification{}
	}

	return Classification{
		IsAPIRequest: originOf(requestURL) == originOf(apiURL),
		IsAuthRoute:  authRoutePattern.MatchString(requestURL.Path),
	}
}

// resolveAgainst resolves rawURL relative to base, the way a browser resolves a fetch
// target against the page origin.
func resolveAgainst(base, rawURL string) (*url.URL, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	resolved := baseURL.ResolveReference(ref)
	if resolved.Host == "" {
		return nil, errNoHost
	}
	return resolved, nil
}

// originOf returns scheme://host:port with default ports made explicit so that
// https://api.example.com and https://api.example.com:443 compare equal.
func originOf(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	port := u.Port()
	if port == "" {
		switch scheme {
		case "http", "ws":
			port = "80"
		case "https", "wss":
			port = "443"
		}
	}
	return scheme + "://" + strings.ToLower(u.Hostname()) + ":" + port
}
