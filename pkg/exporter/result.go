package exporter

import (
	"errors"
	"time"

	"github.com/steinacher/flypdf/pkg/confluence"
	"github.com/steinacher/flypdf/pkg/download"
)

// Outcome says whether a page ended up as a PDF on disk.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Failure causes as they appear in the summary and in metrics. A failed
// page has exactly one of these.
const (
	CauseMalformedURL     = "malformed url"
	CauseExportNotFound   = "export request: not found"
	CauseExportAuth       = "export request: auth"
	CauseExportOther      = "export request"
	CausePoll             = "poll"
	CauseTimeout          = "timeout"
	CauseTaskFailed       = "task failed"
	CauseArtifactNotFound = "artifact not found"
	CauseDownload         = "download"
)

// Result is the final record for one input page. Exactly one Result exists
// per processed page URL, regardless of which pipeline step failed.
type Result struct {
	// URL is the page URL as read from the page list.
	URL string

	// Reference is the parsed page reference, zero-valued when parsing
	// itself failed.
	Reference confluence.PageReference

	// Outcome says whether a PDF was written.
	Outcome Outcome

	// Path is the file written, empty on failure.
	Path string

	// Cause is the stable failure category, empty on success.
	Cause string

	// Err is the originating error, nil on success.
	Err error

	// Elapsed is the wall time the page took end to end.
	Elapsed time.Duration
}

// FailureCause maps a pipeline error to its summary category.
func FailureCause(err error) string {
	var (
		malformed *confluence.MalformedURLError
		request   *confluence.ExportRequestError
		timeout   *confluence.TaskTimeoutError
		failed    *confluence.TaskFailedError
		poll      *confluence.TaskPollError
		artifact  *confluence.ArtifactNotFoundError
		fetch     *download.Error
	)

	switch {
	case errors.As(err, &malformed):
		return CauseMalformedURL
	case errors.As(err, &request):
		switch request.Kind {
		case confluence.KindNotFound:
			return CauseExportNotFound
		case confluence.KindAuth:
			return CauseExportAuth
		default:
			return CauseExportOther
		}
	case errors.As(err, &timeout):
		return CauseTimeout
	case errors.As(err, &failed):
		return CauseTaskFailed
	case errors.As(err, &poll):
		return CausePoll
	case errors.As(err, &artifact):
		return CauseArtifactNotFound
	case errors.As(err, &fetch):
		return CauseDownload
	default:
		return "error"
	}
}

// Report is the outcome of one batch run.
type Report struct {
	// RunID correlates the report with the run's log lines.
	RunID string

	// Results holds one entry per processed page, in input order.
	Results []Result

	// Elapsed is the wall time of the whole batch.
	Elapsed time.Duration
}

// Succeeded counts pages that produced a PDF.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomeSuccess {
			n++
		}
	}
	return n
}

// Failed counts pages that did not.
func (r *Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}
