package authclient

import (
	"context"

	"github.com/deploymenttheory/go-api-auth-interceptor/credentialstore"
	"github.com/deploymenttheory/go-api-auth-interceptor/headers"
	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"github.com/deploymenttheory/go-api-auth-interceptor/version"
)

// Augmenter attaches the stored session credential to outgoing API requests.
type Augmenter struct {
	store             *credentialstore.Store
	classifier        *Classifier
	log               logger.Logger
	userAgent         string
	hideSensitiveData bool
}

// NewAugmenter returns an Augmenter reading tokens from store.
func NewAugmenter(store *credentialstore.Store, classifier *Classifier, log logger.Logger, hideSensitiveData bool) *Augmenter {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Augmenter{
		store:             store,
		classifier:        classifier,
		log:               log,
		userAgent:         version.GetUserAgentHeader(),
		hideSensitiveData: hideSensitiveData,
	}
}

// Augment returns a copy of opts carrying credentials. The caller's options are never
// modified. A non-empty tokenOverride takes precedence over the stored token. Auth routes
// on the API never carry an Authorization header, even one the caller set.
func (a *Augmenter) Augment(ctx context.Context, target Target, opts *RequestOptions, tokenOverride string) *RequestOptions {
	out := opts.clone()
	out.Credentials = CredentialsInclude

	if out.Header == nil {
		if req := requestOf(target); req != nil && req.Header != nil {
			out.Header = headers.CloneHeader(req.Header)
		}
	}

	headerHandler := headers.NewHeaderHandler(out.Header, a.log)
	out.Header = headerHandler.Header()

	token := tokenOverride
	if token == "" {
		token, _ = a.store.GetToken(ctx)
	}
	if token != "" {
		headerHandler.SetAuthorization(token)
	}

	if class := a.classifier.Classify(target); class.IsAPIRequest && class.IsAuthRoute {
		headerHandler.RemoveAuthorization()
	}

	headerHandler.SetUserAgentIfMissing(a.userAgent)
	headerHandler.LogHeaders(a.hideSensitiveData)

	return out
}
