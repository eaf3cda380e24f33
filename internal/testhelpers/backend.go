package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/config"
)

// Backend is a fake data API. Routes are keyed by method and the path
// relative to /api/, e.g. "GET medias/".
type Backend struct {
	Server *httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  map[string]int
	last   map[string]*http.Request
}

func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		routes: make(map[string]http.HandlerFunc),
		calls:  make(map[string]int),
		last:   make(map[string]*http.Request),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

func routeKey(method, path string) string {
	return method + " " + strings.TrimPrefix(path, "/")
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	key := routeKey(r.Method, strings.TrimPrefix(r.URL.Path, "/api/"))

	b.mu.Lock()
	b.calls[key]++
	b.last[key] = r
	h, ok := b.routes[key]
	b.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	h(w, r)
}

// Handle registers h for method and path.
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[routeKey(method, path)] = h
}

// JSON registers a fixed JSON response.
func (b *Backend) JSON(method, path string, status int, body any) {
	b.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Fail makes method and path answer with status.
func (b *Backend) Fail(method, path string, status int) {
	b.JSON(method, path, status, map[string]string{"error": http.StatusText(status)})
}

// Calls reports how many requests hit method and path.
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[routeKey(method, path)]
}

// LastRequest returns the most recent request for method and path.
func (b *Backend) LastRequest(method, path string) *http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last[routeKey(method, path)]
}

// Config returns a backend configuration with fast retries.
func (b *Backend) Config() config.BackendConfig {
	return config.BackendConfig{
		BaseURL:           b.Server.URL + "/api/",
		Timeout:           2 * time.Second,
		RetryMaxAttempts:  2,
		RetryInitialDelay: time.Millisecond,
		BreakerFailures:   100,
		BreakerTimeout:    time.Second,
	}
}

// Client returns an API client pointed at the fake backend.
func (b *Backend) Client(t testing.TB) *apiclient.Client {
	t.Helper()

	c, err := apiclient.New(b.Config())
	if err != nil {
		t.Fatalf("create api client: %v", err)
	}
	return c
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
