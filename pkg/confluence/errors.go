package confluence

import (
	"fmt"
	"net/http"
	"time"
)

// RequestErrorKind classifies export request failures.
type RequestErrorKind string

const (
	// KindNotFound covers 404 responses: the page does not exist or the
	// export add-on is not installed on the site.
	KindNotFound RequestErrorKind = "not_found"

	// KindAuth covers 401 and 403 responses.
	KindAuth RequestErrorKind = "auth"

	// KindOther covers everything else, including a 2xx export response
	// that carries no task ID.
	KindOther RequestErrorKind = "other"
)

// classifyStatus maps an export response status to an error kind.
func classifyStatus(status int) RequestErrorKind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	default:
		return KindOther
	}
}

// MalformedURLError reports a page URL no page ID could be derived from.
type MalformedURLError struct {
	URL    string
	Reason string
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("malformed page URL %q: %s", e.URL, e.Reason)
}

// ExportRequestError reports a failed export kick-off. StatusCode is zero
// when the request never produced a response.
type ExportRequestError struct {
	PageID     string
	StatusCode int
	Kind       RequestErrorKind
	Err        error
}

func (e *ExportRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export request for page %s failed (%s, status %d): %v",
			e.PageID, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("export request for page %s failed (%s, status %d)",
		e.PageID, e.Kind, e.StatusCode)
}

func (e *ExportRequestError) Unwrap() error {
	return e.Err
}

// TaskPollError reports a broken status probe: a transport failure, an
// unexpected HTTP status, or an undecodable progress payload.
type TaskPollError struct {
	TaskID     string
	StatusCode int
	Err        error
}

func (e *TaskPollError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("poll task %s (status %d): %v", e.TaskID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("poll task %s: unexpected status %d", e.TaskID, e.StatusCode)
}

func (e *TaskPollError) Unwrap() error {
	return e.Err
}

// TaskTimeoutError reports a task that stayed non-terminal for the whole
// allowed wait.
type TaskTimeoutError struct {
	TaskID string
	Waited time.Duration
}

func (e *TaskTimeoutError) Error() string {
	// Rounding a sub-second wait would print "0s".
	waited := e.Waited
	if waited >= time.Second {
		waited = waited.Round(time.Second)
	}
	return fmt.Sprintf("task %s not finished after %s", e.TaskID, waited)
}

// TaskFailedError reports a task the server itself marked as failed.
type TaskFailedError struct {
	TaskID string
	State  string
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %s failed on the server (state %q)", e.TaskID, e.State)
}

// ArtifactNotFoundError reports a complete task without a usable download
// link: the result reference is missing, the result fetch failed, or its
// body was not a URL.
type ArtifactNotFoundError struct {
	TaskID     string
	StatusCode int
	Err        error
}

func (e *ArtifactNotFoundError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("no artifact for task %s: %v", e.TaskID, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("no artifact for task %s: result fetch returned status %d", e.TaskID, e.StatusCode)
	default:
		return fmt.Sprintf("no artifact for task %s: task complete but no download link", e.TaskID)
	}
}

func (e *ArtifactNotFoundError) Unwrap() error {
	return e.Err
}
