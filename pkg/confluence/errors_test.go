package confluence

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected RequestErrorKind
	}{
		{name: "404 is not found", status: http.StatusNotFound, expected: KindNotFound},
		{name: "401 is auth", status: http.StatusUnauthorized, expected: KindAuth},
		{name: "403 is auth", status: http.StatusForbidden, expected: KindAuth},
		{name: "500 is other", status: http.StatusInternalServerError, expected: KindOther},
		{name: "429 is other", status: http.StatusTooManyRequests, expected: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifyStatus(tt.status)
			if result != tt.expected {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, result, tt.expected)
			}
		})
	}
}

func TestExportRequestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ExportRequestError
		expected string
	}{
		{
			name: "with wrapped error",
			err: &ExportRequestError{
				PageID:     "42",
				StatusCode: 200,
				Kind:       KindOther,
				Err:        errors.New("no ajs-taskId meta tag in export response"),
			},
			expected: "export request for page 42 failed (other, status 200): no ajs-taskId meta tag in export response",
		},
		{
			name: "without wrapped error",
			err: &ExportRequestError{
				PageID:     "42",
				StatusCode: 404,
				Kind:       KindNotFound,
			},
			expected: "export request for page 42 failed (not_found, status 404)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
	}{
		{name: "export request", err: &ExportRequestError{PageID: "1", Kind: KindOther, Err: inner}},
		{name: "task poll", err: &TaskPollError{TaskID: "t1", Err: inner}},
		{name: "artifact not found", err: &ArtifactNotFoundError{TaskID: "t1", Err: inner}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, inner) {
				t.Errorf("errors.Is(%T, inner) = false, want true", tt.err)
			}
		})
	}
}

func TestTaskTimeoutError_Error(t *testing.T) {
	tests := []struct {
		name     string
		waited   time.Duration
		expected string
	}{
		{
			name:     "whole seconds",
			waited:   300 * time.Second,
			expected: "task abc not finished after 5m0s",
		},
		{
			name:     "rounds fractional seconds",
			waited:   300*time.Second + 350*time.Millisecond,
			expected: "task abc not finished after 5m0s",
		},
		{
			name:     "keeps sub-second wait",
			waited:   200 * time.Millisecond,
			expected: "task abc not finished after 200ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &TaskTimeoutError{TaskID: "abc", Waited: tt.waited}
			if got := err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTaskErrors_Error(t *testing.T) {
	failed := &TaskFailedError{TaskID: "abc", State: "FAILED"}
	if got, want := failed.Error(), `task abc failed on the server (state "FAILED")`; got != want {
		t.Errorf("TaskFailedError.Error() = %q, want %q", got, want)
	}

	poll := &TaskPollError{TaskID: "abc", StatusCode: 502}
	if got, want := poll.Error(), "poll task abc: unexpected status 502"; got != want {
		t.Errorf("TaskPollError.Error() = %q, want %q", got, want)
	}
}

func TestArtifactNotFoundError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ArtifactNotFoundError
		expected string
	}{
		{
			name:     "no link",
			err:      &ArtifactNotFoundError{TaskID: "t9"},
			expected: "no artifact for task t9: task complete but no download link",
		},
		{
			name:     "result fetch status",
			err:      &ArtifactNotFoundError{TaskID: "t9", StatusCode: 410},
			expected: "no artifact for task t9: result fetch returned status 410",
		},
		{
			name:     "wrapped error",
			err:      &ArtifactNotFoundError{TaskID: "t9", Err: errors.New("read result body: unexpected EOF")},
			expected: "no artifact for task t9: read result body: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}
