package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockS3 is a mock object-storage endpoint serving one artifact body on
// every path. It records the last request's headers so tests can assert
// that presigned downloads carry no credentials.
type MockS3 struct {
	server *httptest.Server
	mu     sync.RWMutex
	body   string
	status int

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
}

// NewMockS3 creates a mock object-storage server answering 200 with body.
func NewMockS3(body string) *MockS3 {
	mock := &MockS3{
		body:   body,
		status: http.StatusOK,
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		status := mock.status
		body := mock.body
		mock.mu.Unlock()

		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(status)
		if status == http.StatusOK && body != "" {
			w.Write([]byte(body))
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (s *MockS3) URL() string {
	return s.server.URL
}

// Close shuts down the mock server.
func (s *MockS3) Close() {
	s.server.Close()
}

// SetStatus changes the status code for subsequent requests.
func (s *MockS3) SetStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

// GetRequestCount returns the number of requests made to the server.
func (s *MockS3) GetRequestCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RequestCount
}

// PresignedURL returns a URL on the mock server shaped like a presigned
// object-storage link.
func (s *MockS3) PresignedURL(key string) string {
	return fmt.Sprintf("%s/%s?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Expires=300&X-Amz-Signature=deadbeef", s.server.URL, key)
}
