package authclient

import (
	"context"
	"net/http"

	"github.com/deploymenttheory/go-api-auth-interceptor/metrics"
)

// redirectExpired sends the user to the login location after a refresh failed. Only the
// first call per Interceptor navigates; the message is still read so the 401 body is
// buffered the same way for every caller.
func (i *Interceptor) redirectExpired(ctx context.Context, resp *http.Response) {
	message := expiredMessage(resp, i.config.DefaultExpiredMessage)

	if !i.redirected.CompareAndSwap(false, true) {
		i.log.Debug("Expiry redirect already issued")
		return
	}

	ctx = context.WithoutCancel(ctx)
	i.store.SetExpiredMessage(ctx, message)
	i.store.ClearSession(ctx)
	i.navigate(metrics.RedirectSessionExpired, message)
}

// navigate moves to the login location and records why.
func (i *Interceptor) navigate(reason, message string) {
	i.navigator.Navigate(i.config.LoginLocation)
	i.log.LogRedirect(reason, i.config.LoginLocation, message)
	i.metrics.ObserveRedirect(reason)
}

// Redirected reports whether the expiry redirect has been issued.
func (i *Interceptor) Redirected() bool {
	return i.redirected.Load()
}
