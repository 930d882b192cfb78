package authclient

import (
	"context"
	"net/http"

	"github.com/deploymenttheory/go-api-auth-interceptor/headers"
	"github.com/deploymenttheory/go-api-auth-interceptor/metrics"
	"github.com/deploymenttheory/go-api-auth-interceptor/version"
	"go.uber.org/zap"
)

// ProtectPage guards a page requiring requiredRole. It returns true when a token is stored and
// the stored role matches; otherwise it clears the session, navigates to the login location
// and returns false. An empty requiredRole only requires a token.
func (i *Interceptor) ProtectPage(ctx context.Context, requiredRole string) bool {
	_, hasToken := i.store.GetToken(ctx)
	role, _ := i.store.GetRole(ctx)

	if hasToken && (requiredRole == "" || role == requiredRole) {
		return true
	}

	i.log.Info("Page access denied",
		zap.Bool("has_token", hasToken),
		zap.String("required_role", requiredRole),
		zap.String("role", role),
	)

	ctx = context.WithoutCancel(ctx)
	i.store.ClearExpiredMessage(ctx)
	i.store.ClearSession(ctx)
	i.navigate(metrics.RedirectUnauthorized, "")
	return false
}

// Logout tells the backend to end the session and then always clears local state and
// navigates to the login location. Failures of the backend call are logged and ignored.
func (i *Interceptor) Logout(ctx context.Context) {
	header := http.Header{}
	headers.NewHeaderHandler(header, i.log).SetUserAgentIfMissing(version.GetUserAgentHeader())

	original := i.originalFetch()
	resp, err := original(ctx, RawTarget(i.config.APIURL(i.config.LogoutEndpoint)), &RequestOptions{
		Method:      http.MethodPost,
		Header:      header,
		Credentials: CredentialsInclude,
	})
	if err != nil {
		i.log.Warn("Logout request failed", zap.Error(err))
	} else {
		i.log.Debug("Logout request completed", zap.Int("status_code", resp.StatusCode))
		drainAndClose(resp)
	}

	ctx = context.WithoutCancel(ctx)
	i.store.ClearExpiredMessage(ctx)
	if i.config.LogoutClearsAllStorage {
		i.store.ClearAll(ctx)
	} else {
		i.store.ClearSession(ctx)
	}
	i.navigate(metrics.RedirectLogout, "")
}

// originalFetch returns the wrapped primitive, or a primitive that always fails when the
// interceptor has not been installed.
func (i *Interceptor) originalFetch() FetchFunc {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.original != nil {
		return i.original
	}
	return func(context.Context, Target, *RequestOptions) (*http.Response, error) {
		return nil, errNotInstalled
	}
}
