// status.go
// Package status classifies HTTP responses the way the auth interceptor needs to see them.
package status

import (
	"net/http"
)

// IsSuccess reports whether the status code is in the 2xx range, the same test a browser
// applies for Response.ok.
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// IsUnauthorized reports whether a response signals an invalid or expired session.
// A nil response is never unauthorized.
func IsUnauthorized(resp *http.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusUnauthorized
}

// IsRedirectStatusCode checks if the provided HTTP status code is one of the redirect codes.
func IsRedirectStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

// TranslateStatusCode provides a human-readable message for the status codes the auth flow cares about.
func TranslateStatusCode(resp *http.Response) string {
	if resp == nil {
		return "No status code received, possible network or connection error."
	}

	messages := map[int]string{
		http.StatusOK:                  "Request successful.",
		http.StatusNoContent:           "Request successful. No content to send for this request.",
		http.StatusBadRequest:          "Bad request. Verify the syntax of the request.",
		http.StatusUnauthorized:        "Authentication failed. The session token is missing, invalid or expired.",
		http.StatusForbidden:           "Invalid permissions. Verify the account has the proper role for the resource.",
		http.StatusNotFound:            "Resource not found. Verify the URL path is correct.",
		http.StatusTooManyRequests:     "Too many requests. The API is rate limiting this client.",
		http.StatusInternalServerError: "Internal server error. The API encountered an unexpected condition.",
		http.StatusBadGateway:          "Bad gateway. The API received an invalid response from upstream.",
		http.StatusServiceUnavailable:  "Service unavailable. The API is temporarily unable to handle the request.",
	}

	if message, exists := messages[resp.StatusCode]; exists {
		return message
	}
	return "An unexpected status code was received: " + http.StatusText(resp.StatusCode)
}

// IsPermanentRedirect checks if the provided HTTP status code is one of the permanent redirect codes.
func IsPermanentRedirect(statusCode int) bool {
	return statusCode == http.StatusMovedPermanently || statusCode == http.StatusPermanentRedirect
}
