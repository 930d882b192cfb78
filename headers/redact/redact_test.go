// headers/redact/redact_test.go
package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRedactSensitiveHeaderData tests the RedactSensitiveHeaderData function to ensure it correctly redacts sensitive data.
func TestRedactSensitiveHeaderData(t *testing.T) {
	cases := []struct {
		name              string
		hideSensitiveData bool
		key               string
		value             string
		expected          string
	}{
		{"Authorization With Redaction", true, "Authorization", "Bearer abc", "REDACTED"},
		{"Authorization Without Redaction", false, "Authorization", "Bearer abc", "Bearer abc"},
		{"Storage Token Key", true, "token", "abc", "REDACTED"},
		{"Cookie Lowercase", true, "cookie", "session=1", "REDACTED"},
		{"Non-Sensitive Key With Redaction", true, "User-Agent", "MyCustomAgent", "MyCustomAgent"},
		{"Non-Sensitive Key Without Redaction", false, "User-Agent", "MyCustomAgent", "MyCustomAgent"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := RedactSensitiveHeaderData(tc.hideSensitiveData, tc.key, tc.value)
			assert.Equal(t, tc.expected, result, "Redacted value should match the expected outcome")
		})
	}
}

func TestRedactBearer(t *testing.T) {
	assert.Equal(t, "Bearer REDACTED", RedactBearer(true, "Bearer abc.def"))
	assert.Equal(t, "REDACTED", RedactBearer(true, "opaque"))
	assert.Equal(t, "", RedactBearer(true, ""))
	assert.Equal(t, "Bearer abc.def", RedactBearer(false, "Bearer abc.def"))
}
