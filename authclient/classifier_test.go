package authclient

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTarget(t *testing.T) {
	parsed, err := url.Parse("https://api.example.com/items?page=2")
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/items/1", nil)
	require.NoError(t, err)

	cases := []struct {
		name   string
		target Target
		want   string
	}{
		{name: "raw string", target: RawTarget("/api/items"), want: "/api/items"},
		{name: "url", target: URLTarget{URL: parsed}, want: "https://api.example.com/items?page=2"},
		{name: "nil url", target: URLTarget{}, want: ""},
		{name: "request", target: RequestTarget{Request: req}, want: "https://api.example.com/items/1"},
		{name: "nil request", target: RequestTarget{}, want: ""},
		{name: "nil target", target: nil, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeTarget(tc.target))
		})
	}
}

func TestClassifier_ClassifyURL(t *testing.T) {
	classifier := NewClassifier("https://app.example.com", "https://api.example.com")

	cases := []struct {
		name string
		url  string
		want Classification
	}{
		{name: "api resource", url: "https://api.example.com/items", want: Classification{IsAPIRequest: true}},
		{name: "explicit default port", url: "https://api.example.com:443/items", want: Classification{IsAPIRequest: true}},
		{name: "host case", url: "https://API.example.com/items", want: Classification{IsAPIRequest: true}},
		{name: "login route", url: "https://api.example.com/auth/login", want: Classification{IsAPIRequest: true, IsAuthRoute: true}},
		{name: "refresh route trailing slash", url: "https://api.example.com/auth/refresh/", want: Classification{IsAPIRequest: true, IsAuthRoute: true}},
		{name: "logout route", url: "https://api.example.com/auth/logout", want: Classification{IsAPIRequest: true, IsAuthRoute: true}},
		{name: "auth prefix only", url: "https://api.example.com/auth/me", want: Classification{IsAPIRequest: true}},
		{name: "auth route with suffix", url: "https://api.example.com/auth/login/extra", want: Classification{IsAPIRequest: true}},
		{name: "different scheme", url: "http://api.example.com/items", want: Classification{}},
		{name: "different port", url: "https://api.example.com:8443/items", want: Classification{}},
		{name: "relative resolves to page origin", url: "/items", want: Classification{}},
		{name: "third party auth path", url: "https://other.example.com/auth/login", want: Classification{IsAuthRoute: true}},
		{name: "unparseable", url: "https://api.example.com/%zz", want: Classification{}},
		{name: "empty", url: "", want: Classification{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifier.ClassifyURL(tc.url))
		})
	}
}

func TestClassifier_RelativeTargetsOnSameOriginAPI(t *testing.T) {
	classifier := NewClassifier("https://example.com", "https://example.com/api")

	assert.Equal(t, Classification{IsAPIRequest: true}, classifier.Classify(RawTarget("/api/items")))
	assert.Equal(t, Classification{IsAPIRequest: true, IsAuthRoute: true}, classifier.Classify(RawTarget("/auth/refresh")))
	assert.Equal(t, Classification{IsAPIRequest: true}, classifier.Classify(RawTarget("items")))
}

func TestClassifier_BrokenConfigurationFailsSafe(t *testing.T) {
	classifier := NewClassifier("not a url", "also not a url")

	assert.Equal(t, Classification{}, classifier.Classify(RawTarget("/api/items")))
	assert.Equal(t, Classification{}, classifier.Classify(RawTarget("https://api.example.com/auth/login")))
}

func TestOriginOf(t *testing.T) {
	cases := map[string]string{
		"http://example.com/a":       "http://example.com:80",
		"https://example.com/a":      "https://example.com:443",
		"https://example.com:8443/a": "https://example.com:8443",
		"HTTPS://Example.COM":        "https://example.com:443",
	}
	for raw, want := range cases {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, want, originOf(u), raw)
	}
}
