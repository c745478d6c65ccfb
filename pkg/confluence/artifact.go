package confluence

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Result bodies are a single URL; anything bigger is garbage.
const maxResultBody = 1 << 20

// LocateArtifact resolves a complete task to the presigned object-storage
// URL its artifact can be fetched from. The task's result reference is an
// API resource (absolute or site-relative); fetching it yields the
// presigned URL as the response body, sometimes wrapped in quotes.
//
// The returned URL is re-serialized through net/url so stray characters are
// percent-encoded before it is handed to the downloader.
func (c *Client) LocateArtifact(ctx context.Context, task *ExportTask) (string, error) {
	if task.Result == "" {
		return "", &ArtifactNotFoundError{TaskID: task.ID}
	}

	resultURL := task.Result
	if strings.HasPrefix(resultURL, "/") {
		resultURL = c.config.BaseURL + resultURL
	}

	resp, err := c.get(ctx, resultURL)
	if err != nil {
		return "", &ArtifactNotFoundError{TaskID: task.ID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ArtifactNotFoundError{TaskID: task.ID, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResultBody))
	if err != nil {
		return "", &ArtifactNotFoundError{TaskID: task.ID, Err: err}
	}

	raw := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if raw == "" {
		return "", &ArtifactNotFoundError{TaskID: task.ID}
	}

	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() {
		if len(raw) > 80 {
			raw = raw[:80] + "..."
		}
		return "", &ArtifactNotFoundError{TaskID: task.ID, Err: fmt.Errorf("result body is not an absolute URL: %q", raw)}
	}

	c.logger.Debug().
		Str("task_id", task.ID).
		Str("host", parsed.Host).
		Msg("Artifact located")

	return parsed.String(), nil
}
