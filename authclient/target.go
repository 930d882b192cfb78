package authclient

import (
	"net/http"
	"net/url"
)

// Target is what a caller hands to Fetch as the request destination. It is a closed set:
// RawTarget, URLTarget and RequestTarget.
type Target interface {
	isTarget()
}

// RawTarget is a URL string, absolute or relative to the page origin.
type RawTarget string

// URLTarget is an already parsed URL.
type URLTarget struct {
	URL *url.URL
}

// RequestTarget is a full request descriptor. Its method, headers and body are used when
// the RequestOptions passed alongside it leave them unset.
type RequestTarget struct {
	Request *http.Request
}

func (RawTarget) isTarget()     {}
func (URLTarget) isTarget()     {}
func (RequestTarget) isTarget() {}

// NormalizeTarget reduces a Target to a single URL string. Missing URLs and unknown
// targets yield "".
func NormalizeTarget(target Target) string {
	switch t := target.(type) {
	case RawTarget:
		return string(t)
	case URLTarget:
		if t.URL == nil {
			return ""
		}
		return t.URL.String()
	case RequestTarget:
		if t.Request == nil || t.Request.URL == nil {
			return ""
		}
		return t.Request.URL.String()
	default:
		return ""
	}
}

// requestOf returns the descriptor carried by a RequestTarget, or nil.
func requestOf(target Target) *http.Request {
	if t, ok := target.(RequestTarget); ok {
		return t.Request
	}
	return nil
}
