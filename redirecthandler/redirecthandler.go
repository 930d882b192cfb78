// redirecthandler/redirecthandler.go
package redirecthandler

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/deploymenttheory/go-api-auth-interceptor/headers"
	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"github.com/deploymenttheory/go-api-auth-interceptor/status"
	"go.uber.org/zap"
)

// RedirectHandler contains configurations for handling HTTP redirects.
type RedirectHandler struct {
	Logger             logger.Logger     // Logger instance for logging.
	MaxRedirects       int               // Maximum allowed redirects to prevent infinite loops.
	SensitiveHeaders   []string          // Headers to be removed on cross-host redirects.
	PermanentRedirects map[string]string // Cache for permanent redirects
	PermRedirectsMutex sync.RWMutex      // Mutex for safe concurrent access to PermanentRedirects
}

// NewRedirectHandler creates a new instance of RedirectHandler.
func NewRedirectHandler(log logger.Logger, maxRedirects int) *RedirectHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RedirectHandler{
		Logger:             log,
		MaxRedirects:       maxRedirects,
		SensitiveHeaders:   []string{headers.AuthorizationHeader, "Cookie"},
		PermanentRedirects: make(map[string]string),
	}
}

// WithRedirectHandling applies the redirect handling policy to an http.Client.
func (r *RedirectHandler) WithRedirectHandling(client *http.Client) {
	client.CheckRedirect = r.checkRedirect
}

// checkRedirect implements the redirect handling logic. req is the request about to be
// sent; via holds the requests already made, oldest first.
func (r *RedirectHandler) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) == 0 {
		return nil
	}
	previous := via[len(via)-1]

	// Non-idempotent methods are handed back to the caller unchanged.
	if previous.Method == http.MethodPost || previous.Method == http.MethodPatch {
		r.Logger.Warn("Redirect attempted on non-idempotent method, not following", zap.String("method", previous.Method))
		return http.ErrUseLastResponse
	}

	if len(via) >= r.MaxRedirects {
		r.Logger.Warn("Maximum redirects reached", zap.Int("maxRedirects", r.MaxRedirects))
		return &MaxRedirectsError{MaxRedirects: r.MaxRedirects}
	}

	if cached, ok := r.checkPermanentRedirect(req.URL.String()); ok && (req.Method == http.MethodGet || req.Method == http.MethodHead) {
		parsedURL, err := url.Parse(cached)
		if err != nil {
			r.Logger.Warn("Failed to parse URL from cache", zap.String("url", cached), zap.Error(err))
		} else {
			r.Logger.Info("Using cached permanent redirect", zap.String("originalURL", req.URL.String()), zap.String("redirectURL", cached))
			req.URL = parsedURL
		}
	}

	if hasLoop(req.URL, via) {
		r.Logger.Warn("Redirect loop detected", zap.String("url", req.URL.String()))
		return &RedirectLoopError{URL: req.URL.String()}
	}

	if previous.URL.Host != req.URL.Host {
		r.secureRequest(req)
	}

	lastResponse := req.Response
	if lastResponse == nil {
		lastResponse = previous.Response
	}
	if lastResponse != nil {
		if status.IsPermanentRedirect(lastResponse.StatusCode) {
			r.cachePermanentRedirect(previous.URL.String(), req.URL.String())
		}
		if lastResponse.StatusCode == http.StatusSeeOther {
			r.adjustForSeeOther(req)
		}
	}

	r.Logger.Info("Redirecting request", zap.String("originalURL", previous.URL.String()), zap.String("newURL", req.URL.String()), zap.Int("redirectCount", len(via)))
	return nil
}

// secureRequest removes sensitive headers from the request if the new destination is a different host.
func (r *RedirectHandler) secureRequest(req *http.Request) {
	for _, header := range r.SensitiveHeaders {
		req.Header.Del(header)
	}
}

// adjustForSeeOther adjusts the request for "303 See Other" responses.
func (r *RedirectHandler) adjustForSeeOther(req *http.Request) {
	req.Method = http.MethodGet
	req.Body = nil
	req.GetBody = nil
	req.ContentLength = 0
	req.Header.Del("Content-Type")
}

// RedirectLoopError represents an error when a redirect loop is detected.
type RedirectLoopError struct {
	URL string
}

func (e *RedirectLoopError) Error() string {
	return fmt.Sprintf("redirect loop detected at %s", e.URL)
}

// MaxRedirectsError represents an error when the maximum number of redirects is reached.
type MaxRedirectsError struct {
	MaxRedirects int
}

func (e *MaxRedirectsError) Error() string {
	return fmt.Sprintf("maximum redirects reached: %d", e.MaxRedirects)
}

// cachePermanentRedirect caches the permanent redirect location.
func (r *RedirectHandler) cachePermanentRedirect(originalURL, redirectURL string) {
	r.PermRedirectsMutex.Lock()
	defer r.PermRedirectsMutex.Unlock()

	r.PermanentRedirects[originalURL] = redirectURL
}

// checkPermanentRedirect checks if there's a cached redirect for the given URL.
func (r *RedirectHandler) checkPermanentRedirect(originalURL string) (string, bool) {
	r.PermRedirectsMutex.RLock()
	defer r.PermRedirectsMutex.RUnlock()

	redirectURL, exists := r.PermanentRedirects[originalURL]
	return redirectURL, exists
}

// hasLoop reports whether next was already visited in this redirect chain.
func hasLoop(next *url.URL, via []*http.Request) bool {
	target := next.String()
	for _, visited := range via {
		if visited.URL.String() == target {
			return true
		}
	}
	return false
}

// SetupRedirectHandler configures the HTTP client for redirect handling based on the client configuration.
func SetupRedirectHandler(client *http.Client, followRedirects bool, maxRedirects int, log logger.Logger) error {
	if followRedirects {
		if maxRedirects < 1 {
			return log.Error("Invalid maxRedirects value", zap.Int("maxRedirects", maxRedirects))
		}

		redirectHandler := NewRedirectHandler(log, maxRedirects)
		redirectHandler.WithRedirectHandling(client)
		log.Info("Redirect handling enabled", zap.Int("MaxRedirects", maxRedirects))
	}
	return nil
}
