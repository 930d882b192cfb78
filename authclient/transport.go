package authclient

import (
	"net/http"
)

// Transport adapts the intercepting FetchFunc to http.RoundTripper so an existing
// *http.Client can route its requests through the interceptor.
type Transport struct {
	fetch FetchFunc
}

// RoundTrip sends req through the interceptor. The request is handed over as a RequestTarget
// with no extra options, so its own method, headers and body are used.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.fetch(req.Context(), RequestTarget{Request: req}, nil)
}

// Transport returns the RoundTripper form of the installed wrapper, or nil before Install.
func (i *Interceptor) Transport() *Transport {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.transport
}

// InstallOn routes client through the installed interceptor. The client's previous transport
// is replaced, not wrapped; requests are dispatched by the interceptor's own primitive.
// Calling it again on the same client changes nothing.
func (i *Interceptor) InstallOn(client *http.Client) error {
	transport := i.Transport()
	if transport == nil {
		return errNotInstalled
	}
	if current, ok := client.Transport.(*Transport); ok && current == transport {
		return nil
	}
	client.Transport = transport
	return nil
}
