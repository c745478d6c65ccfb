package exporter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWriteSummary(t *testing.T) {
	report := &Report{
		RunID: "run-1",
		Results: []Result{
			{
				URL:     "https://example.atlassian.net/wiki/spaces/A/pages/1/First",
				Outcome: OutcomeSuccess,
				Path:    "exported/First.pdf",
			},
			{
				URL:     "https://example.atlassian.net/wiki/spaces/A/pages/2/Second",
				Outcome: OutcomeFailure,
				Cause:   CauseExportNotFound,
				Err:     errors.New("export request for page 2 failed (not_found, status 404)"),
			},
		},
		Elapsed: 3 * time.Second,
	}

	var buf bytes.Buffer
	WriteSummary(&buf, report)
	out := buf.String()

	if !strings.Contains(out, "run-1") {
		t.Errorf("summary missing run ID:\n%s", out)
	}
	if !strings.Contains(out, "ok    https://example.atlassian.net/wiki/spaces/A/pages/1/First -> exported/First.pdf") {
		t.Errorf("summary missing success line:\n%s", out)
	}
	if !strings.Contains(out, "export request: not found") {
		t.Errorf("summary missing failure cause:\n%s", out)
	}
	if !strings.Contains(out, "1 succeeded, 1 failed in 3s") {
		t.Errorf("summary missing tally:\n%s", out)
	}
}

func TestWriteSummary_AllGood(t *testing.T) {
	report := &Report{
		RunID: "run-2",
		Results: []Result{
			{URL: "u1", Outcome: OutcomeSuccess, Path: "exported/a.pdf"},
			{URL: "u2", Outcome: OutcomeSuccess, Path: "exported/b.pdf"},
		},
		Elapsed: 1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	WriteSummary(&buf, report)
	out := buf.String()

	if strings.Contains(out, "fail") {
		t.Errorf("summary contains a failure line:\n%s", out)
	}
	if !strings.Contains(out, "2 succeeded, 0 failed in 1.5s") {
		t.Errorf("summary missing tally:\n%s", out)
	}
}
