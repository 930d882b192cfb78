package authclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/deploymenttheory/go-api-auth-interceptor/credentialstore"
	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"github.com/deploymenttheory/go-api-auth-interceptor/metrics"
	"github.com/deploymenttheory/go-api-auth-interceptor/navigation"
	"github.com/deploymenttheory/go-api-auth-interceptor/status"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var errNotInstalled = errors.New("interceptor not installed")

// Interceptor holds the per-application auth state: whether it has been installed, the
// refresh attempt currently in flight and whether the expiry redirect already happened.
type Interceptor struct {
	config     ClientConfig
	store      *credentialstore.Store
	classifier *Classifier
	augmenter  *Augmenter
	navigator  navigation.Navigator
	log        logger.Logger
	metrics    *metrics.Metrics

	mu        sync.Mutex
	original  FetchFunc
	installed FetchFunc
	transport *Transport

	refreshGroup singleflight.Group
	redirected   atomic.Bool
}

// NewInterceptor wires an Interceptor. config must already carry its defaults.
func NewInterceptor(config ClientConfig, store *credentialstore.Store, navigator navigation.Navigator, log logger.Logger, m *metrics.Metrics) *Interceptor {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	classifier := NewClassifier(config.PageOrigin, config.APIBaseURL)
	return &Interceptor{
		config:     config,
		store:      store,
		classifier: classifier,
		augmenter:  NewAugmenter(store, classifier, log, config.HideSensitiveData),
		navigator:  navigator,
		log:        log,
		metrics:    m,
	}
}

// Install wraps original and returns the intercepting FetchFunc. Only the first call wraps;
// later calls return the wrapper already installed and ignore their argument.
func (i *Interceptor) Install(original FetchFunc) FetchFunc {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.installed != nil {
		i.log.Debug("Interceptor already installed")
		return i.installed
	}
	i.original = original
	i.installed = i.fetch
	i.transport = &Transport{fetch: i.installed}
	i.log.Info("Interceptor installed", zap.String("api_base_url", i.config.APIBaseURL))
	return i.installed
}

// Installed reports whether Install has run.
func (i *Interceptor) Installed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.installed != nil
}

// Classifier exposes the classifier the interceptor uses.
func (i *Interceptor) Classifier() *Classifier {
	return i.classifier
}

// fetch is the intercepting FetchFunc.
func (i *Interceptor) fetch(ctx context.Context, target Target, opts *RequestOptions) (*http.Response, error) {
	requestID := uuid.NewString()
	requestURL := NormalizeTarget(target)
	method := methodOf(target, opts)

	class := i.classifier.ClassifyURL(requestURL)
	if !class.IsAPIRequest {
		i.metrics.ObserveRequest(metrics.ClassThirdParty)
		i.log.LogRequest("passthrough", requestID, method, requestURL, 0)
		return i.original(ctx, target, opts)
	}

	opts, err := bufferBody(target, opts)
	if err != nil {
		return nil, err
	}
	augmented := i.augmenter.Augment(ctx, target, opts, "")

	if class.IsAuthRoute {
		i.metrics.ObserveRequest(metrics.ClassAuthRoute)
		resp, err := i.original(ctx, target, augmented)
		i.logDispatch("auth_route", requestID, method, requestURL, resp, err)
		return resp, err
	}

	i.metrics.ObserveRequest(metrics.ClassAPI)
	resp, err := i.original(ctx, target, augmented)
	i.logDispatch("dispatch", requestID, method, requestURL, resp, err)
	if err != nil {
		return nil, err
	}
	if !status.IsUnauthorized(resp) {
		return resp, nil
	}

	refreshed, err := i.refresh(ctx, requestID)
	if err != nil {
		drainAndClose(resp)
		return nil, err
	}

	if refreshed {
		drainAndClose(resp)
		retry := i.augmenter.Augment(ctx, target, opts, "")
		i.metrics.ObserveRetry()
		resp, err := i.original(ctx, target, retry)
		i.logDispatch("retry", requestID, method, requestURL, resp, err)
		return resp, err
	}

	i.redirectExpired(ctx, resp)
	return resp, nil
}

func (i *Interceptor) logDispatch(event, requestID, method, requestURL string, resp *http.Response, err error) {
	if err != nil {
		i.log.LogError(event, method, requestURL, 0, err, "request failed")
		return
	}
	i.log.LogRequest(event, requestID, method, requestURL, resp.StatusCode)
}

// bufferBody copies a streamed request body into the options so the request can be sent a
// second time after a refresh. Options already carrying a body are returned as they are.
func bufferBody(target Target, opts *RequestOptions) (*RequestOptions, error) {
	if opts != nil && opts.Body != nil {
		return opts, nil
	}
	req := requestOf(target)
	if req == nil || req.Body == nil || req.Body == http.NoBody {
		return opts, nil
	}

	body, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	out := opts.clone()
	out.Body = body
	return out, nil
}

// drainAndClose releases the connection behind a response that will not be returned.
func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBufferedBody))
	resp.Body.Close()
}

// restoreBody puts the already consumed prefix back in front of the unread remainder of the
// response body. Closing the result closes the original body.
func restoreBody(resp *http.Response, prefix []byte) {
	resp.Body = &replayBody{
		Reader: io.MultiReader(bytes.NewReader(prefix), resp.Body),
		Closer: resp.Body,
	}
}

type replayBody struct {
	io.Reader
	io.Closer
}
