// proxy.go

package proxy

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"go.uber.org/zap"
)

// ConfigureProxy routes transport through proxyURL. Credentials are taken from username and
// password, or from userinfo already present in proxyURL. An empty proxyURL leaves the
// transport untouched.
func ConfigureProxy(transport *http.Transport, proxyURL, username, password string, log logger.Logger) error {
	if proxyURL == "" {
		return nil
	}

	parsedProxyURL, err := url.Parse(proxyURL)
	if err != nil || parsedProxyURL.Host == "" {
		log.Error("Failed to parse proxy URL", zap.String("ProxyURL", proxyURL), zap.Error(err))
		return fmt.Errorf("invalid proxy url %q", proxyURL)
	}

	if username != "" {
		parsedProxyURL.User = url.UserPassword(username, password)
	}

	transport.Proxy = http.ProxyURL(parsedProxyURL)

	log.Info("Proxy configured", zap.String("ProxyURL", parsedProxyURL.Redacted()))
	return nil
}
