package exporter

import (
	"fmt"
	"io"
	"time"
)

// WriteSummary renders the end-of-run report: one line per page with the
// file written or the failure cause, then a tally. Plain text so the output
// stays pipeable.
func WriteSummary(w io.Writer, report *Report) {
	fmt.Fprintf(w, "\nExport summary (run %s):\n", report.RunID)

	for _, res := range report.Results {
		if res.Outcome == OutcomeSuccess {
			fmt.Fprintf(w, "  ok    %s -> %s\n", res.URL, res.Path)
			continue
		}
		detail := res.Cause
		if res.Err != nil {
			detail = fmt.Sprintf("%s (%v)", res.Cause, res.Err)
		}
		fmt.Fprintf(w, "  fail  %s -> %s\n", res.URL, detail)
	}

	fmt.Fprintf(w, "%d succeeded, %d failed in %s\n",
		report.Succeeded(), report.Failed(), report.Elapsed.Round(time.Millisecond))
}
