package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/pflag"

	"github.com/pscheid92/vsware/internal/adapter/metrics"
	"github.com/pscheid92/vsware/internal/platform/config"
	"github.com/pscheid92/vsware/internal/platform/correlation"
	"github.com/pscheid92/vsware/internal/platform/logging"
	"github.com/pscheid92/vsware/internal/platform/version"
	"github.com/pscheid92/vsware/vsware"
)

const usage = `Usage: vsware [flags] <command>

Commands:
  learners          list learners linked to the account
  profile           locale, roles, parental details and learner info
  timetable         timetable for a date range (default: this week)
  attendance        attendance overview for the current academic year
  assessments       published assessments with results and comments
  behaviour         behaviour points and incident history
  notifications     unread counts and unread notifications
  print-timetable   render the printable timetable as HTML
  renew             renew the session's access token
  version           print build information

Flags:
`

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.command == "version" {
		fmt.Println(version.Get())
		return
	}

	cfg := setupConfig()
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = correlation.Start(ctx, opts.command)

	if err := run(ctx, cfg, opts, os.Stdout); err != nil {
		slog.ErrorContext(ctx, "Command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts *options, out io.Writer) error {
	reg := metrics.NewRegistry()
	clientMetrics := metrics.NewClientMetrics(reg)

	client, err := vsware.New(cfg.Subdomain,
		vsware.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		vsware.WithObserver(clientMetrics),
	)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Starting", "version", version.Version, "subdomain", cfg.Subdomain, "session_id", client.Session().ID)

	a := &app{
		client:    client,
		out:       out,
		clock:     clockwork.NewRealClock(),
		learnerID: cfg.LearnerID,
	}
	if opts.learner != "" {
		a.learnerID = opts.learner
	}

	runErr := a.login(ctx, cfg.Username, cfg.Password)
	if runErr == nil {
		runErr = a.run(ctx, opts)
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			slog.WarnContext(ctx, "Failed to write metrics", "error", err)
		}
	}

	return runErr
}
