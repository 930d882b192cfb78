package authclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deploymenttheory/go-api-auth-interceptor/credentialstore"
	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"github.com/deploymenttheory/go-api-auth-interceptor/navigation"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testRefreshCookie = "refresh_token"

// testBackend is a protected API: /api/* accepts only the current valid token, /auth/refresh
// rotates it, /auth/login sets the refresh cookie and /auth/logout ends the session.
type testBackend struct {
	server *httptest.Server

	mu               sync.Mutex
	validToken       string
	refreshToken     string
	refreshRole      string
	refreshStatus    int
	refreshBody      string
	unauthorizedBody string
	unauthorizedType string
	refreshGate      func()
	seenAuth         map[string]string
	seenBody         map[string]string
	seenCookie       map[string]bool

	refreshCalls     atomic.Int32
	logoutCalls      atomic.Int32
	unauthorizedHits atomic.Int32
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	b := &testBackend{
		validToken:       "valid-token",
		refreshToken:     "fresh-token",
		refreshStatus:    http.StatusOK,
		unauthorizedBody: `{"message":"Token expired"}`,
		unauthorizedType: "application/json",
		seenAuth:         map[string]string{},
		seenBody:         map[string]string{},
		seenCookie:       map[string]bool{},
	}

	router := chi.NewRouter()
	router.HandleFunc("/api/*", b.handleAPI)
	router.Post("/auth/refresh", b.handleRefresh)
	router.Post("/auth/login", b.handleLogin)
	router.Post("/auth/logout", b.handleLogout)

	b.server = httptest.NewServer(router)
	t.Cleanup(b.server.Close)
	return b
}

func (b *testBackend) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	_, cookieErr := r.Cookie(testRefreshCookie)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.seenAuth[r.URL.Path] = r.Header.Get("Authorization")
	b.seenBody[r.URL.Path] = string(body)
	b.seenCookie[r.URL.Path] = cookieErr == nil
}

func (b *testBackend) handleAPI(w http.ResponseWriter, r *http.Request) {
	b.record(r)

	b.mu.Lock()
	authorized := r.Header.Get("Authorization") == "Bearer "+b.validToken
	body, contentType := b.unauthorizedBody, b.unauthorizedType
	b.mu.Unlock()

	if !authorized {
		b.unauthorizedHits.Add(1)
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, body)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"ok":true}`)
}

func (b *testBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)
	b.record(r)

	b.mu.Lock()
	gate := b.refreshGate
	b.mu.Unlock()
	if gate != nil {
		gate()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refreshStatus != http.StatusOK {
		w.WriteHeader(b.refreshStatus)
		return
	}
	if b.refreshBody != "" {
		_, _ = io.WriteString(w, b.refreshBody)
		return
	}
	b.validToken = b.refreshToken
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": b.refreshToken, "role": b.refreshRole})
}

func (b *testBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	b.record(r)
	http.SetCookie(w, &http.Cookie{Name: testRefreshCookie, Value: "r1", Path: "/"})
	w.Header().Set("Content-Type", "application/json")
	b.mu.Lock()
	token := b.validToken
	b.mu.Unlock()
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token, "role": "admin"})
}

func (b *testBackend) handleLogout(w http.ResponseWriter, r *http.Request) {
	b.logoutCalls.Add(1)
	b.record(r)
	w.WriteHeader(http.StatusNoContent)
}

func (b *testBackend) set(fn func(b *testBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func (b *testBackend) authSeen(path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seenAuth[path]
}

func (b *testBackend) bodySeen(path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seenBody[path]
}

func (b *testBackend) cookieSeen(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seenCookie[path]
}

// waitForUnauthorized blocks until the backend has rejected n requests or two seconds pass.
func (b *testBackend) waitForUnauthorized(n int32) {
	deadline := time.Now().Add(2 * time.Second)
	for b.unauthorizedHits.Load() < n && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
}

type testClient struct {
	*Client
	recorder *navigation.Recorder
	storage  *credentialstore.MemoryStorage
	registry *prometheus.Registry
}

func newTestClient(t *testing.T, b *testBackend, mutate ...func(*ClientConfig)) *testClient {
	t.Helper()
	recorder := &navigation.Recorder{}
	storage := credentialstore.NewMemoryStorage()
	registry := prometheus.NewRegistry()

	config := ClientConfig{
		APIBaseURL:        b.server.URL,
		Storage:           storage,
		Navigator:         recorder,
		Logger:            logger.NewNopLogger(),
		MetricsRegisterer: registry,
		HideSensitiveData: true,
	}
	for _, fn := range mutate {
		fn(&config)
	}

	client, err := BuildClient(config, true)
	require.NoError(t, err)
	return &testClient{Client: client, recorder: recorder, storage: storage, registry: registry}
}

func (c *testClient) storedValue(t *testing.T, key string) string {
	t.Helper()
	value, err := c.storage.Get(context.Background(), key)
	if err != nil {
		return ""
	}
	return value
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
