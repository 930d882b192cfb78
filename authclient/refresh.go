package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/deploymenttheory/go-api-auth-interceptor/headers"
	"github.com/deploymenttheory/go-api-auth-interceptor/status"
	"github.com/deploymenttheory/go-api-auth-interceptor/version"
	"go.uber.org/zap"
)

const refreshKey = "refresh"

// refreshResponse is the body the refresh endpoint returns on success.
type refreshResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type refreshOutcome struct {
	refreshed bool
	reason    string
}

// refresh joins the refresh attempt in flight or starts one. Every caller waiting on the same
// attempt sees the same outcome. A non-nil error means only that ctx ended while waiting; the
// attempt itself carries on for the other callers.
func (i *Interceptor) refresh(ctx context.Context, requestID string) (bool, error) {
	leader := false
	ch := i.refreshGroup.DoChan(refreshKey, func() (interface{}, error) {
		leader = true
		return i.doRefresh(ctx), nil
	})

	select {
	case <-ctx.Done():
		i.log.Warn("Stopped waiting for session refresh", zap.String("request_id", requestID), zap.Error(ctx.Err()))
		return false, ctx.Err()
	case result := <-ch:
		outcome := result.Val.(refreshOutcome)
		if leader {
			i.metrics.ObserveRefresh(outcome.refreshed)
		} else {
			i.metrics.ObserveRefreshJoined()
		}
		i.log.LogRefreshOutcome(requestID, outcome.refreshed, outcome.reason)
		return outcome.refreshed, nil
	}
}

// doRefresh performs the single network call behind a refresh attempt. It runs detached from
// the cancellation of the caller that started it.
func (i *Interceptor) doRefresh(ctx context.Context) refreshOutcome {
	ctx = context.WithoutCancel(ctx)
	if i.config.RefreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.config.RefreshTimeout)
		defer cancel()
	}

	header := http.Header{}
	headers.NewHeaderHandler(header, i.log).SetUserAgentIfMissing(version.GetUserAgentHeader())
	opts := &RequestOptions{
		Method:      http.MethodPost,
		Header:      header,
		Credentials: CredentialsInclude,
	}

	resp, err := i.original(ctx, RawTarget(i.config.APIURL(i.config.RefreshEndpoint)), opts)
	if err != nil {
		i.log.Warn("Session refresh request failed", zap.Error(err))
		return refreshOutcome{reason: fmt.Sprintf("transport error: %v", err)}
	}
	defer drainAndClose(resp)

	if !status.IsSuccess(resp.StatusCode) {
		return refreshOutcome{reason: fmt.Sprintf("refresh endpoint returned %d: %s", resp.StatusCode, status.TranslateStatusCode(resp))}
	}

	var payload refreshResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBufferedBody)).Decode(&payload); err != nil {
		return refreshOutcome{reason: fmt.Sprintf("decode refresh response: %v", err)}
	}
	if payload.Token == "" {
		return refreshOutcome{reason: "refresh response carried no token"}
	}

	i.store.SetSession(ctx, payload.Token, payload.Role)
	return refreshOutcome{refreshed: true, reason: "token refreshed"}
}
