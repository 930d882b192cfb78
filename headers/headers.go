// headers/headers.go
package headers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/deploymenttheory/go-api-auth-interceptor/headers/redact"
	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	UserAgentHeader     = "User-Agent"
	BearerPrefix        = "Bearer "
)

// HeaderHandler manages the headers of one outgoing request.
type HeaderHandler struct {
	header http.Header   // header being managed, owned by the caller
	log    logger.Logger // logger used by LogHeaders
}

// NewHeaderHandler creates a HeaderHandler for header. A nil header is replaced by an empty one.
func NewHeaderHandler(header http.Header, log logger.Logger) *HeaderHandler {
	if header == nil {
		header = http.Header{}
	}
	return &HeaderHandler{header: header, log: log}
}

// Header returns the managed header.
func (h *HeaderHandler) Header() http.Header {
	return h.header
}

// SetAuthorization sets the Authorization header to a bearer credential, overwriting any prior value.
// The "Bearer " prefix is added only once.
func (h *HeaderHandler) SetAuthorization(token string) {
	if !strings.HasPrefix(token, BearerPrefix) {
		token = BearerPrefix + token
	}
	h.header.Set(AuthorizationHeader, token)
}

// RemoveAuthorization drops any Authorization header.
func (h *HeaderHandler) RemoveAuthorization() {
	h.header.Del(AuthorizationHeader)
}

// SetUserAgentIfMissing sets User-Agent unless the caller already chose one.
func (h *HeaderHandler) SetUserAgentIfMissing(userAgent string) {
	if h.header.Get(UserAgentHeader) == "" && userAgent != "" {
		h.header.Set(UserAgentHeader, userAgent)
	}
}

// LogHeaders writes the managed headers at debug level, redacting credentials when hideSensitiveData is set.
func (h *HeaderHandler) LogHeaders(hideSensitiveData bool) {
	if h.log == nil || h.log.GetLogLevel() > logger.LogLevelDebug {
		return
	}

	redactedHeaders := http.Header{}
	for name, values := range h.header {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		if strings.EqualFold(name, AuthorizationHeader) {
			value = redact.RedactBearer(hideSensitiveData, value)
		} else {
			value = redact.RedactSensitiveHeaderData(hideSensitiveData, name, value)
		}
		redactedHeaders.Set(name, value)
	}

	h.log.Debug("HTTP Request Headers", zap.String("Headers", HeadersToString(redactedHeaders)))
}

// CloneHeader copies h so the caller's header map is never mutated. A nil input yields an empty header.
func CloneHeader(h http.Header) http.Header {
	if h == nil {
		return http.Header{}
	}
	return h.Clone()
}

// HeadersToString converts a http.Header to a string for logging, one header per line in name order.
func HeadersToString(headers http.Header) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	headerStrings := make([]string, 0, len(names))
	for _, name := range names {
		headerStrings = append(headerStrings, fmt.Sprintf("%s: %s", name, strings.Join(headers[name], ", ")))
	}
	return strings.Join(headerStrings, "\n")
}
