// headers/redact/redact.go
package redact

import "strings"

// Redacted replaces sensitive values in log output.
const Redacted = "REDACTED"

// sensitiveKeys are matched case-insensitively against header names and storage keys.
var sensitiveKeys = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"token":         true,
}

// RedactSensitiveHeaderData redacts sensitive data based on the hideSensitiveData flag.
func RedactSensitiveHeaderData(hideSensitiveData bool, key, value string) string {
	if hideSensitiveData && sensitiveKeys[strings.ToLower(key)] {
		return Redacted
	}
	return value
}

// RedactBearer keeps the scheme of an Authorization value and hides the credential,
// so logs still show whether a bearer token was attached.
func RedactBearer(hideSensitiveData bool, value string) string {
	if !hideSensitiveData || value == "" {
		return value
	}
	if scheme, _, ok := strings.Cut(value, " "); ok {
		return scheme + " " + Redacted
	}
	return Redacted
}
