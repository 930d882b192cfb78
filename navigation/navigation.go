// Package navigation models the page-level redirect the interceptor performs when a
// session cannot be recovered. A Navigator receives the login location; what "navigating"
// means is up to the host (a browser bridge, a CLI prompt, a test recorder).
package navigation

import "sync"

// DefaultLoginLocation is where unauthenticated users are sent.
const DefaultLoginLocation = "/login.html"

// Navigator moves the user to location.
type Navigator interface {
	Navigate(location string)
}

// Func adapts a plain function to Navigator.
type Func func(location string)

// Navigate calls f(location).
func (f Func) Navigate(location string) {
	f(location)
}

// Recorder is a Navigator that remembers every location it was sent to.
type Recorder struct {
	mu        sync.Mutex
	locations []string
}

// Navigate records location.
func (r *Recorder) Navigate(location string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations = append(r.locations, location)
}

// Locations returns a copy of the recorded locations in order.
func (r *Recorder) Locations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.locations...)
}

// Count returns how many navigations were recorded.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locations)
}

// Last returns the most recent location, or "" when nothing was recorded.
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.locations) == 0 {
		return ""
	}
	return r.locations[len(r.locations)-1]
}
