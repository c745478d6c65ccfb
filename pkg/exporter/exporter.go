// Package exporter drives the per-page export pipeline and collects the
// batch report.
package exporter

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/steinacher/flypdf/pkg/config"
	"github.com/steinacher/flypdf/pkg/confluence"
	"github.com/steinacher/flypdf/pkg/download"
)

// Prometheus metrics for batch runs.
var (
	pagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flypdf_pages_total",
			Help: "Pages processed by outcome and failure cause",
		},
		[]string{"outcome", "cause"},
	)

	pageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flypdf_page_duration_seconds",
			Help:    "End-to-end per-page export duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
)

// Exporter runs the export pipeline for a list of pages, one page at a
// time. Pages are independent: one page failing never stops the batch.
type Exporter struct {
	client     *confluence.Client
	downloader *download.Downloader
	cfg        *config.Config
	logger     zerolog.Logger
}

// New wires an Exporter from its parts.
func New(client *confluence.Client, dl *download.Downloader, cfg *config.Config) *Exporter {
	return &Exporter{
		client:     client,
		downloader: dl,
		cfg:        cfg,
		logger:     log.With().Str("component", "exporter").Logger(),
	}
}

// Run exports every page in urls sequentially and returns the batch report
// with one Result per processed page. Cancelling ctx stops the batch
// between pages; pages already processed keep their results.
func (e *Exporter) Run(ctx context.Context, urls []string) *Report {
	start := time.Now()
	runID := uuid.New().String()
	logger := e.logger.With().Str("run_id", runID).Logger()

	logger.Info().
		Int("pages", len(urls)).
		Str("output_dir", e.cfg.OutputDir).
		Msg("Starting export batch")

	results := make([]Result, 0, len(urls))
	for _, pageURL := range urls {
		if ctx.Err() != nil {
			logger.Warn().Err(ctx.Err()).Msg("Batch interrupted")
			break
		}
		results = append(results, e.exportPage(ctx, logger, pageURL))
	}

	report := &Report{RunID: runID, Results: results, Elapsed: time.Since(start)}

	logger.Info().
		Int("succeeded", report.Succeeded()).
		Int("failed", report.Failed()).
		Dur("elapsed", report.Elapsed).
		Msg("Export batch finished")

	return report
}

// ExportPage runs the full pipeline for a single page URL: parse, request
// the export, wait for the task, locate the artifact, download it. Every
// failure is folded into the returned Result; nothing escapes the page
// boundary.
func (e *Exporter) ExportPage(ctx context.Context, pageURL string) Result {
	return e.exportPage(ctx, e.logger, pageURL)
}

func (e *Exporter) exportPage(ctx context.Context, logger zerolog.Logger, pageURL string) Result {
	start := time.Now()
	res := Result{URL: pageURL}

	defer func() {
		res.Elapsed = time.Since(start)
		pageDuration.Observe(res.Elapsed.Seconds())
		cause := res.Cause
		if cause == "" {
			cause = "none"
		}
		pagesTotal.WithLabelValues(string(res.Outcome), cause).Inc()
	}()

	pageLog := logger.With().Str("page_url", pageURL).Logger()
	pageLog.Info().Msg("Processing page")

	ref, err := confluence.ParsePageURL(pageURL)
	if err != nil {
		return fail(pageLog, res, err)
	}
	res.Reference = ref
	pageLog = pageLog.With().Str("page_id", ref.PageID).Logger()

	// API calls always go to the configured site; a page list pointing
	// elsewhere is worth a warning before it fails with a 404.
	if !strings.EqualFold(ref.SiteBase, e.client.BaseURL()) {
		pageLog.Warn().
			Str("page_origin", ref.SiteBase).
			Str("base_url", e.client.BaseURL()).
			Msg("Page URL origin differs from configured base URL")
	}

	task, err := e.client.StartExport(ctx, ref)
	if err != nil {
		return fail(pageLog, res, err)
	}

	task, err = e.client.WaitForTask(ctx, task, e.cfg.PollInterval, e.cfg.PollTimeout)
	if err != nil {
		return fail(pageLog, res, err)
	}

	artifactURL, err := e.client.LocateArtifact(ctx, task)
	if err != nil {
		return fail(pageLog, res, err)
	}

	// Presigned URLs expire within minutes; download immediately.
	path, err := e.downloader.Fetch(ctx, artifactURL, filename(ref))
	if err != nil {
		return fail(pageLog, res, err)
	}

	res.Outcome = OutcomeSuccess
	res.Path = path
	pageLog.Info().Str("path", path).Dur("elapsed", time.Since(start)).Msg("Page exported")
	return res
}

// fail finalizes a Result for err and logs it once.
func fail(logger zerolog.Logger, res Result, err error) Result {
	res.Outcome = OutcomeFailure
	res.Err = err
	res.Cause = FailureCause(err)
	logger.Error().Err(err).Str("cause", res.Cause).Msg("Page export failed")
	return res
}

// filename derives the artifact file name: the sanitized page title when
// the URL has one, the page ID otherwise.
func filename(ref confluence.PageReference) string {
	stem := download.SafeFilename(ref.TitleSlug)
	if stem == "" {
		stem = ref.PageID
	}
	return stem + ".pdf"
}
