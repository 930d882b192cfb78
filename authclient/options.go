package authclient

import (
	"net/http"

	"github.com/deploymenttheory/go-api-auth-interceptor/headers"
)

// CredentialsMode controls whether the session cookie jar takes part in a dispatch.
type CredentialsMode string

const (
	CredentialsOmit       CredentialsMode = "omit"
	CredentialsSameOrigin CredentialsMode = "same-origin"
	CredentialsInclude    CredentialsMode = "include"
)

// RequestOptions are the per-call overrides passed alongside a Target. Zero fields defer to
// the RequestTarget descriptor when there is one.
type RequestOptions struct {
	Method      string
	Header      http.Header
	Body        []byte
	Credentials CredentialsMode
}

// clone returns a copy that shares nothing mutable with o. A nil receiver yields empty options.
func (o *RequestOptions) clone() *RequestOptions {
	if o == nil {
		return &RequestOptions{}
	}
	out := *o
	if o.Header != nil {
		out.Header = headers.CloneHeader(o.Header)
	}
	if o.Body != nil {
		out.Body = append([]byte(nil), o.Body...)
	}
	return &out
}

func (o *RequestOptions) credentials() CredentialsMode {
	if o == nil || o.Credentials == "" {
		return CredentialsSameOrigin
	}
	return o.Credentials
}
