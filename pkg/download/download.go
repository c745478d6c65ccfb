// Package download fetches finished export artifacts from presigned
// object-storage URLs and writes them into the output directory.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for artifact downloads.
var (
	downloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flypdf_downloads_total",
			Help: "Artifact downloads by outcome",
		},
		[]string{"outcome"},
	)

	downloadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flypdf_download_bytes_total",
			Help: "Total artifact bytes written to disk",
		},
	)
)

// Error reports a failed artifact download. StatusCode is zero when the
// request never produced a response.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("download %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Downloader fetches presigned URLs into a directory. Its HTTP client is
// separate from the authenticated API client on purpose: object storage
// rejects presigned requests that carry foreign auth headers, so these
// requests go out bare.
type Downloader struct {
	httpClient *http.Client
	dir        string
	logger     zerolog.Logger
}

// New creates a Downloader writing into dir. The directory is created at
// construction, before any page is processed, so an unusable output path
// fails the run up front. A timeout of zero means no limit, which suits
// large artifacts on slow links.
func New(dir string, timeout time.Duration) (*Downloader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	return &Downloader{
		httpClient: &http.Client{Timeout: timeout},
		dir:        dir,
		logger:     log.With().Str("component", "downloader").Logger(),
	}, nil
}

// Fetch downloads one artifact into the output directory under filename and
// returns the path written. The request carries no Authorization or site
// headers, only the cross-site fetch hint object storage expects. Existing
// files are overwritten.
func (d *Downloader) Fetch(ctx context.Context, presignedURL, filename string) (string, error) {
	// Recreate the directory if it vanished mid-run.
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", &Error{URL: presignedURL, Err: fmt.Errorf("create output dir: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, presignedURL, nil)
	if err != nil {
		return "", &Error{URL: presignedURL, Err: err}
	}
	req.Header.Set("Sec-Fetch-Site", "cross-site")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		downloadsTotal.WithLabelValues("network_error").Inc()
		return "", &Error{URL: presignedURL, Err: err}
	}
	defer resp.Body.Close()

	// Presigned URLs answer 304 when the object is unchanged; both count
	// as success.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotModified {
		downloadsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		return "", &Error{URL: presignedURL, StatusCode: resp.StatusCode}
	}

	path := filepath.Join(d.dir, filename)
	file, err := os.Create(path)
	if err != nil {
		downloadsTotal.WithLabelValues("file_error").Inc()
		return "", &Error{URL: presignedURL, Err: err}
	}

	written, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// Do not leave a truncated PDF behind.
		_ = os.Remove(path)
		downloadsTotal.WithLabelValues("file_error").Inc()
		return "", &Error{URL: presignedURL, Err: fmt.Errorf("write %s: %w", path, err)}
	}

	downloadsTotal.WithLabelValues("ok").Inc()
	downloadBytesTotal.Add(float64(written))

	d.logger.Info().
		Str("path", path).
		Int64("bytes", written).
		Msg("Artifact saved")

	return path, nil
}
