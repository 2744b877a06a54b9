package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/kingrea/seedbed/internal/batch"
	"github.com/kingrea/seedbed/internal/config"
	"github.com/kingrea/seedbed/internal/database"
	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/files"
	"github.com/kingrea/seedbed/internal/gen"
	"github.com/kingrea/seedbed/internal/logbook"
	"github.com/kingrea/seedbed/internal/logging"
	"github.com/kingrea/seedbed/internal/metrics"
	"github.com/kingrea/seedbed/internal/provider"
	"github.com/kingrea/seedbed/internal/providers"
	"github.com/kingrea/seedbed/internal/repository"
	"github.com/kingrea/seedbed/internal/tracking"
	"github.com/kingrea/seedbed/plugins"
)

// Global carries process state shared by every command.
type Global struct {
	Ctx context.Context
	Out io.Writer
	// Stderr receives console logs. Defaults to os.Stderr.
	Stderr io.Writer
}

func (g *Global) context() context.Context {
	if g == nil || g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition and global flags.
type CLI struct {
	Project  string           `short:"p" help:"Project directory containing .seedbed" default:"." type:"path"`
	Verbose  bool             `short:"v" help:"Enable debug logging"`
	Database string           `help:"Database DSN (sqlite://path, path or postgres://...)" env:"SEEDBED_DATABASE"`
	Seed     uint64           `help:"Random generator seed; 0 picks one per run" env:"SEEDBED_SEED"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init         InitCmd         `cmd:"" help:"Create the .seedbed directory, config and sample providers"`
	List         ListCmd         `cmd:"" help:"List providers in run order with tracked counts"`
	Create       CreateCmd       `cmd:"" help:"Generate content from providers"`
	Remove       RemoveCmd       `cmd:"" help:"Remove generated content"`
	RemoveEntity RemoveEntityCmd `cmd:"" name:"remove-entity" help:"Remove a single generated entity"`
	Status       StatusCmd       `cmd:"" help:"Show the last run and tracked counts"`
	Log          LogCmd          `cmd:"" help:"Show the run journal"`
	Asset        AssetCmd        `cmd:"" help:"Write one generated placeholder asset"`
}

// app is the wired runtime for commands that touch content.
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	db       *database.DB
	registry *provider.Registry
	repo     *repository.Repository
	journal  *logbook.Logbook
	reports  *batch.ReportStore
	recorder *metrics.PrometheusRecorder
	random   *gen.Random
}

// open loads configuration and wires stores, storage and providers.
func (c *CLI) open(g *Global) (*app, error) {
	cfg, err := config.NewConfig(c.Project)
	if err != nil {
		return nil, err
	}
	cfg.OverrideDatabase(c.Database)
	cfg.OverrideSeed(c.Seed)

	logger, err := logging.New(logging.Options{Verbose: c.Verbose, Dir: cfg.LogsDir(), Stderr: g.Stderr})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	ctx := g.context()
	a.db, err = database.Open(ctx, cfg.Database())
	if err != nil {
		a.Close()
		return nil, err
	}
	storage, err := openStorage(ctx, cfg.Files())
	if err != nil {
		a.Close()
		return nil, err
	}

	a.registry = provider.NewRegistry()
	providers.RegisterFiles(a.registry)
	if cfg.BuiltinsEnabled() {
		providers.RegisterBuiltins(a.registry)
	}
	report, err := plugins.Discover(cfg.ProviderRoots(), a.registry, logger.Logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Debug("Providers discovered",
		"registered", len(report.Registered),
		"skipped", len(report.Skipped),
		"total", a.registry.Len())

	a.random = gen.NewRandom(cfg.Seed())
	a.repo = repository.New(
		a.registry,
		entity.NewStore(a.db),
		tracking.NewStore(a.db, tracking.WithLogger(logger.Logger), tracking.WithBatchSize(cfg.BatchSize())),
		storage,
		repository.WithLogger(logger.Logger),
		repository.WithGenerators(a.random, gen.NewStatic()),
	)

	a.journal, err = logbook.New(cfg.JournalPath())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.reports = batch.NewReportStore(cfg.ReportPath())
	a.recorder = metrics.NewPrometheusRecorder(prom.NewRegistry(), cfg.MetricsTextfile())
	return a, nil
}

func openStorage(ctx context.Context, cfg config.FilesConfig) (files.Storage, error) {
	switch cfg.Driver {
	case "s3":
		s3, err := files.NewS3(files.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Region:    cfg.S3.Region,
			UseSSL:    cfg.S3.UseSSL,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3, nil
	default:
		return files.NewLocal(cfg.Dir), nil
	}
}

// runner builds a batch runner with the standard finish hooks.
func (a *app) runner(mode batch.Mode, observers ...func(batch.Progress)) *batch.Runner {
	opts := []batch.Option{
		batch.WithLogger(a.logger.Logger),
		batch.WithObserver(metrics.StepObserver(a.recorder, mode)),
		batch.WithFinishHook(
			batch.ClearHook(a.repo),
			metrics.FinishHook(a.recorder),
			batch.JournalHook(a.journal),
			a.reports.Hook(),
		),
	}
	for _, fn := range observers {
		opts = append(opts, batch.WithObserver(fn))
	}
	return batch.NewRunner(opts...)
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Failed to close database", logging.Error(err))
		}
	}
	_ = a.logger.Close()
}

func relPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
