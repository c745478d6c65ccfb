package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for task polling.
var (
	pollProbesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flypdf_poll_probes_total",
			Help: "Total task status probes",
		},
	)

	taskWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flypdf_task_wait_seconds",
			Help:    "Time spent waiting for export tasks to reach a terminal status",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
)

// taskProgressPath is the task status endpoint, parameterized by task ID.
const taskProgressPath = "/wiki/services/api/v1/task/%s/progress"

// PollTask fetches the current status of an export task once. The returned
// task is a fresh copy with Status, Progress, State and Result taken from
// the server; the input task is left untouched.
func (c *Client) PollTask(ctx context.Context, task *ExportTask) (*ExportTask, error) {
	progressURL := c.config.BaseURL + fmt.Sprintf(taskProgressPath, url.PathEscape(task.ID))

	pollProbesTotal.Inc()

	resp, err := c.get(ctx, progressURL)
	if err != nil {
		return task, &TaskPollError{TaskID: task.ID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return task, &TaskPollError{TaskID: task.ID, StatusCode: resp.StatusCode}
	}

	var progress taskProgress
	if err := json.NewDecoder(resp.Body).Decode(&progress); err != nil {
		return task, &TaskPollError{
			TaskID:     task.ID,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode progress payload: %w", err),
		}
	}

	updated := *task
	updated.Progress = progress.Progress
	updated.State = progress.State
	updated.Status = statusFrom(progress)
	if updated.Status == StatusComplete {
		updated.Result = progress.Result
	}

	return &updated, nil
}

// WaitForTask polls the task at the given interval until the server reports
// a terminal status or maxWait elapses. At least one probe is always made.
// Returns the last observed task alongside the error, so callers can log
// how far the task got.
func (c *Client) WaitForTask(ctx context.Context, task *ExportTask, interval, maxWait time.Duration) (*ExportTask, error) {
	start := time.Now()
	current := task

	for {
		updated, err := c.PollTask(ctx, current)
		if err != nil {
			return current, err
		}
		current = updated

		c.logger.Debug().
			Str("task_id", current.ID).
			Int("progress", current.Progress).
			Str("state", current.State).
			Str("status", string(current.Status)).
			Msg("Task progress")

		if current.Status.IsTerminal() {
			taskWaitDuration.Observe(time.Since(start).Seconds())
			if current.Status == StatusFailed {
				return current, &TaskFailedError{TaskID: current.ID, State: current.State}
			}
			return current, nil
		}

		if elapsed := time.Since(start); elapsed >= maxWait {
			taskWaitDuration.Observe(elapsed.Seconds())
			c.logger.Warn().
				Str("task_id", current.ID).
				Int("progress", current.Progress).
				Dur("waited", elapsed).
				Msg("Task wait budget exhausted")
			return current, &TaskTimeoutError{TaskID: current.ID, Waited: elapsed}
		}

		select {
		case <-ctx.Done():
			return current, &TaskPollError{TaskID: current.ID, Err: ctx.Err()}
		case <-time.After(interval):
		}
	}
}
