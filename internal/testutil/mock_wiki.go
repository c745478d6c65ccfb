// Package testutil provides mock servers for exporter tests: a wiki API
// server and an object-storage endpoint for presigned downloads.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockWiki is a configurable mock wiki server for testing. Handlers are
// registered per path; unknown paths answer 404.
type MockWiki struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
	pathCounts        map[string]int
	pathHeaders       map[string]http.Header
}

// NewMockWiki creates a new mock wiki server.
func NewMockWiki() *MockWiki {
	mock := &MockWiki{
		handlers:    make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pathCounts:  make(map[string]int),
		pathHeaders: make(map[string]http.Header),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.pathCounts[r.URL.Path]++
		mock.pathHeaders[r.URL.Path] = r.Header.Clone()
		mock.mu.Unlock()

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockWiki) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockWiki) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockWiki) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
	m.pathCounts = make(map[string]int)
	m.pathHeaders = make(map[string]http.Header)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockWiki) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockWiki) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockWiki) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// RequestsFor returns the number of requests made to a specific path.
func (m *MockWiki) RequestsFor(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// HeadersFor returns the headers of the last request to a specific path.
func (m *MockWiki) HeadersFor(path string) http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathHeaders[path]
}

// ExportPath is the export add-on endpoint the client calls.
const ExportPath = "/wiki/spaces/flyingpdf/pdfpageexport.action"

// ProgressPath returns the task progress endpoint path for a task ID.
func ProgressPath(taskID string) string {
	return fmt.Sprintf("/wiki/services/api/v1/task/%s/progress", taskID)
}

// ExportHTML returns the HTML shell the export endpoint answers with.
func ExportHTML(taskID string) string {
	return fmt.Sprintf(`<html><head><meta name="ajs-taskId" content="%s"></head><body>Exporting...</body></html>`, taskID)
}

// ProgressBody returns one task progress payload.
func ProgressBody(progress int, state, result string) string {
	return fmt.Sprintf(`{"progress": %d, "state": %q, "result": %q}`, progress, state, result)
}

// SetExport registers the export endpoint answering with taskID for every
// pageId.
func (m *MockWiki) SetExport(taskID string) {
	m.SetResponse(ExportPath, NewExportResponse(taskID))
}

// SetTaskProgress registers the progress endpoint for taskID, answering the
// given payloads one per probe and repeating the last one.
func (m *MockWiki) SetTaskProgress(taskID string, payloads ...string) {
	var mu sync.Mutex
	next := 0
	m.SetHandler(ProgressPath(taskID), func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		payload := payloads[next]
		if next < len(payloads)-1 {
			next++
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(payload))
	})
}

// NewExportResponse creates a standard export kick-off response.
func NewExportResponse(taskID string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       ExportHTML(taskID),
		Headers: map[string]string{
			"Content-Type": "text/html; charset=utf-8",
		},
	}
}

// NewProgressResponse creates a task progress response.
func NewProgressResponse(progress int, state, result string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       ProgressBody(progress, state, result),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewNotFoundResponse creates a 404 response the way the site renders it.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `<html><body>Page not found</body></html>`,
		Headers: map[string]string{
			"Content-Type": "text/html; charset=utf-8",
		},
	}
}

// NewUnauthorizedResponse creates a 401 response.
func NewUnauthorizedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusUnauthorized,
		Body:       `{"message": "Client must be authenticated"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}
