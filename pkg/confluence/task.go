package confluence

import "strings"

// TaskStatus is the lifecycle state of an export task as last observed on
// the server. A timed-out wait is a client-side outcome, not a status.
type TaskStatus string

const (
	StatusPending  TaskStatus = "pending"
	StatusRunning  TaskStatus = "running"
	StatusComplete TaskStatus = "complete"
	StatusFailed   TaskStatus = "failed"
)

// IsTerminal reports whether further polling can still change the status.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// ExportTask is one asynchronous PDF export job on the server. Fields are
// refreshed from server responses only, never advanced locally.
type ExportTask struct {
	// ID is the task identifier scraped from the export kick-off response.
	ID string

	// Status is the last observed lifecycle state.
	Status TaskStatus

	// Progress is the last reported completion percentage, 0 to 100.
	Progress int

	// State is the raw server-side state string, kept for logging.
	State string

	// Result locates the finished artifact, absolute or site-relative.
	// Populated only once Status is StatusComplete.
	Result string
}

// taskProgress is the wire shape of the task progress endpoint.
type taskProgress struct {
	Progress int    `json:"progress"`
	State    string `json:"state"`
	Result   string `json:"result"`
}

// statusFrom maps a progress payload to a TaskStatus. The server reports
// completion as progress reaching 100; the state string is opaque except
// for failure markers.
func statusFrom(p taskProgress) TaskStatus {
	switch {
	case strings.Contains(strings.ToLower(p.State), "fail"):
		return StatusFailed
	case p.Progress >= 100:
		return StatusComplete
	case p.Progress > 0:
		return StatusRunning
	default:
		return StatusPending
	}
}
