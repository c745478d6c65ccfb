package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gopkg.in/urfave/cli.v1"

	"github.com/steinacher/flypdf/pkg/config"
	"github.com/steinacher/flypdf/pkg/confluence"
	"github.com/steinacher/flypdf/pkg/download"
	"github.com/steinacher/flypdf/pkg/exporter"
	"github.com/steinacher/flypdf/pkg/logging"
)

func main() {

	app := cli.NewApp()

	app.Name = "flypdf"
	app.Version = "0.1.0"
	app.Usage = "batch-export wiki pages to PDF via the flyingpdf add-on"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config,c",
			Usage: "config file (optional, environment wins)",
		},
		cli.StringFlag{
			Name:  "pages,p",
			Usage: "page list file, one URL per line",
		},
		cli.StringFlag{
			Name:  "out,o",
			Usage: "output directory for the PDFs",
		},
		cli.DurationFlag{
			Name:  "poll-interval",
			Usage: "delay between task status probes",
		},
		cli.DurationFlag{
			Name:  "poll-timeout",
			Usage: "maximum wait per export task, raise for large pages",
		},
		cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "serve Prometheus metrics on this address while the batch runs",
		},
		cli.BoolFlag{
			Name:  "pretty",
			Usage: "human-readable console logs",
		},
		cli.BoolFlag{
			Name:  "verbose,v",
			Usage: "debug logging",
		},
	}
	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("configuration: %v", err), 1)
	}
	applyFlags(cfg, ctx)

	level := logging.LogLevel(cfg.LogLevel)
	if ctx.Bool("verbose") {
		level = logging.LevelDebug
	}
	logging.Setup(logging.Config{
		Level:  level,
		Pretty: cfg.LogPretty || ctx.Bool("pretty"),
		Output: os.Stderr,
	})

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	urls, err := exporter.ReadPageList(cfg.PagesFile)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if len(urls) == 0 {
		return cli.NewExitError(fmt.Sprintf("no page URLs in %s", cfg.PagesFile), 1)
	}

	client, err := confluence.New(confluence.Config{
		BaseURL:   cfg.BaseURL,
		Username:  cfg.Username,
		APIToken:  cfg.APIToken,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
	})
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("configuration: %v", err), 1)
	}

	dl, err := download.New(cfg.OutputDir, cfg.DownloadTimeout)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	report := exporter.New(client, dl, cfg).Run(context.Background(), urls)
	exporter.WriteSummary(os.Stdout, report)

	if report.Failed() > 0 {
		return cli.NewExitError("", 1)
	}
	return nil
}

// applyFlags overrides config values with explicitly set command line flags.
func applyFlags(cfg *config.Config, ctx *cli.Context) {
	if v := ctx.String("pages"); v != "" {
		cfg.PagesFile = v
	}
	if v := ctx.String("out"); v != "" {
		cfg.OutputDir = v
	}
	if v := ctx.Duration("poll-interval"); v > 0 {
		cfg.PollInterval = v
	}
	if v := ctx.Duration("poll-timeout"); v > 0 {
		cfg.PollTimeout = v
	}
	if v := ctx.String("metrics-addr"); v != "" {
		cfg.MetricsAddr = v
	}
}

// serveMetrics exposes /metrics for the duration of the run. Errors are not
// fatal; the export itself matters more than its metrics.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Warn().Err(err).Msg("Metrics server stopped")
	}
}
