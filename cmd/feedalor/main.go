package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/feedalor/pkg/capture"
	"github.com/umputun/feedalor/pkg/capture/decoders"
	"github.com/umputun/feedalor/pkg/config"
	"github.com/umputun/feedalor/pkg/executor"
	"github.com/umputun/feedalor/pkg/exif"
	"github.com/umputun/feedalor/pkg/imagestore"
	"github.com/umputun/feedalor/pkg/queue"
	"github.com/umputun/feedalor/pkg/repository"
	"github.com/umputun/feedalor/pkg/scheduler"
	"github.com/umputun/feedalor/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

// captureQueue is what both queue backends provide to the dispatcher and the
// worker side
type captureQueue interface {
	Enqueue(ctx context.Context, feedID string) error
	Run(ctx context.Context) error
	Close() error
}

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug)

	lgr.Printf("[INFO] starting feedalor version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Printf("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		lgr.Printf("[ERROR] feedalor failed: %v", err)
		os.Exit(1)
	}

	lgr.Printf("[INFO] shutdown complete")
}

// run wires everything together and blocks until the context is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// re-setup logging with secrets from the config
	var secrets []string
	if cfg.Adapters.GoogleMapsAPIKey != "" {
		secrets = append(secrets, cfg.Adapters.GoogleMapsAPIKey)
	}
	setupLog(opts.Debug, secrets...)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] database close failed: %v", err)
		}
	}()

	// flags stranded by a previous crash would block dispatch forever
	if n, err := repos.Feed.ResetInFlight(ctx); err != nil {
		return fmt.Errorf("failed to reset in-flight flags: %w", err)
	} else if n > 0 {
		lgr.Printf("[WARN] recovered %d feeds stranded in flight", n)
	}

	registry := capture.NewRegistry()
	err = registry.Populate(func(r *capture.Registry) error {
		return decoders.Register(r, decoders.Config{
			Client:           &http.Client{Timeout: cfg.Adapters.HTTPTimeout},
			UserAgent:        cfg.Adapters.UserAgent,
			GoogleMapsAPIKey: cfg.Adapters.GoogleMapsAPIKey,
			CacheDir:         cfg.Adapters.CacheDir,
			BrowserTimeout:   cfg.Adapters.BrowserTimeout,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to register decoders: %w", err)
	}

	images, err := imagestore.NewStore(cfg.Storage.ImageDir)
	if err != nil {
		return fmt.Errorf("failed to init image store: %w", err)
	}

	exec := executor.New(repos.Feed, registry, images, exif.NewEmbedder(), cfg.Scheduler.CaptureTimeout)

	q, err := makeQueue(cfg, exec)
	if err != nil {
		return fmt.Errorf("failed to init queue: %w", err)
	}

	sched := scheduler.NewScheduler(repos.Feed, q, scheduler.Config{
		PollInterval: cfg.Scheduler.PollInterval,
		WiggleWindow: cfg.Scheduler.WiggleWindow,
	})
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(cfg, repos.Feed, sched, registry, images, revision, opts.Debug)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := q.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("queue stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		return q.Close()
	})

	return g.Wait()
}

// makeQueue builds the configured queue backend
func makeQueue(cfg *config.Config, exec *executor.Executor) (captureQueue, error) {
	switch cfg.Queue.Type {
	case "amqp":
		q, err := queue.NewAMQP(cfg.Queue.URL, cfg.Queue.Name, cfg.Queue.Prefetch, exec)
		if err != nil {
			return nil, err
		}
		lgr.Printf("[INFO] using amqp queue %s", cfg.Queue.Name)
		return q, nil
	default:
		lgr.Printf("[INFO] using local queue with %d workers", cfg.Queue.Workers)
		return queue.NewLocal(exec, cfg.Queue.Workers, 100), nil
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
