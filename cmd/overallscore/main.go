// Command overallscore evaluates a dataset of test cases with the overall score metric
// and prints a report. It exits 0 when every case passes, 1 when any case fails or
// errors and 2 when the run cannot be set up.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/datar-psa/evalscore/config"
	"github.com/datar-psa/evalscore/dataset"
	"github.com/datar-psa/evalscore/log"
	"github.com/datar-psa/evalscore/overall"
	"github.com/datar-psa/evalscore/runner"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitSetup  = 2
)

const tracerName = "github.com/datar-psa/evalscore/cmd/overallscore"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	configPath  string
	datasetPath string
	format      string
	metricsAddr string
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("overallscore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "Path to the YAML configuration file")
	fs.StringVar(&f.datasetPath, "dataset", "", "Path to the YAML or JSON dataset file")
	fs.StringVar(&f.format, "format", "text", "Report format: text or json")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	if err := fs.Parse(args); err != nil {
		return f, err
	}

	if f.configPath == "" || f.datasetPath == "" {
		return f, errors.New("-config and -dataset are required")
	}
	if f.format != "text" && f.format != "json" {
		return f, fmt.Errorf("unknown format %q", f.format)
	}
	return f, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitSetup
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitSetup
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintln(stderr, err)
		return exitSetup
	}
	logger := log.Default

	ds, err := dataset.Load(f.datasetPath)
	if err != nil {
		logger.Error("failed to load dataset", zap.Error(err))
		return exitSetup
	}

	p, err := buildProviders(ctx, cfg, otel.Tracer(tracerName))
	if err != nil {
		logger.Error("failed to set up providers", zap.Error(err))
		return exitSetup
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("failed to close providers", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	sink := overall.MultiSink{
		overall.NewZapSink(logger),
		overall.NewPrometheusSink(reg),
	}
	if f.metricsAddr != "" {
		srv := serveMetrics(f.metricsAddr, reg, logger)
		defer shutdownMetrics(srv, logger)
	}

	opts := append([]overall.Option{overall.WithSink(sink)}, p.options...)
	cache := overall.NewCache(func(minimumScore float64) (*overall.Metric, error) {
		return overall.New(p.delegates, slices.Concat(opts, []overall.Option{overall.WithMinimumScore(minimumScore)})...)
	})

	r := runner.New(cache,
		runner.WithConcurrency(cfg.Concurrency),
		runner.WithMinimumScore(cfg.MinScore()),
		runner.WithLogger(logger),
	)

	logger.Info("evaluating dataset",
		zap.String("dataset", f.datasetPath),
		zap.Int("cases", len(ds.Cases)),
		zap.String("judge", cfg.Judge.Provider),
		zap.String("embedding", cfg.Embedding.Provider),
	)

	report, runErr := r.Run(ctx, ds)
	if report != nil {
		if err := writeReport(stdout, report, f.format); err != nil {
			logger.Error("failed to write report", zap.Error(err))
			return exitSetup
		}
	}
	if runErr != nil {
		logger.Error("run aborted", zap.Error(runErr))
		return exitSetup
	}

	if !report.OK() {
		return exitFailed
	}
	return exitOK
}

func writeReport(w io.Writer, report *runner.Report, format string) error {
	if format == "json" {
		return report.WriteJSON(w)
	}
	return report.WriteText(w)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	return srv
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownMetrics(srv shutdowner, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("failed to shut down metrics server", zap.Error(err))
	}
}
