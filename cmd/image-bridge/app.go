package main

import (
	"context"

	"github.com/ironsheep/image-bridge/internal/cachefile"
	"github.com/ironsheep/image-bridge/internal/config"
	"github.com/ironsheep/image-bridge/internal/logging"
	"github.com/ironsheep/image-bridge/internal/metadata"
	"github.com/ironsheep/image-bridge/internal/service"
	"github.com/ironsheep/image-bridge/internal/worker"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app is the wired service stack shared by every command.
type app struct {
	cfg   *config.Config
	svc   *service.Service
	pool  *worker.Pool
	store metadata.Store

	closers []func() error
}

func newApp(cfg *config.Config) *app {
	a := &app{cfg: cfg}

	var copier service.MetadataCopier
	if cfg.Metadata.Enabled {
		a.store = a.openStore()
		copier = metadata.NewCopier(a.store)
	}

	a.svc = service.New(service.Options{
		Allocator:   cachefile.NewAllocator(cfg.CacheDir),
		Copier:      copier,
		ReduceColor: cfg.Compress.ReduceColor,
	})
	a.pool = worker.New(cfg.Worker.MaxConcurrency)
	return a
}

// openStore prefers exiftool and falls back to the pure-Go reader, in which
// case metadata is not written to derived images.
func (a *app) openStore() metadata.Store {
	et, err := metadata.NewExiftoolStore(a.cfg.Metadata.ExiftoolPath)
	if err != nil {
		log.Warn().Err(err).Msg("exiftool unavailable, metadata will not be copied to derived images")
		return metadata.ReadOnlyStore{Reader: metadata.NewExifReader()}
	}
	a.closers = append(a.closers, et.Close)
	return et
}

func (a *app) logStartup(version, buildTime, gitCommit string) {
	log.Info().
		Str("version", version).
		Str("build_time", buildTime).
		Str("git_commit", gitCommit).
		Str("cache_dir", a.cfg.CacheDir).
		Int("max_concurrency", a.pool.MaxConcurrency()).
		Bool("reduce_color", a.cfg.Compress.ReduceColor).
		Bool("metadata", a.cfg.Metadata.Enabled).
		Msg("starting image-bridge")
}

// run executes task on the pool and waits for its result.
func (a *app) run(ctx context.Context, task worker.Task) (any, error) {
	return a.pool.Submit(ctx, task).Wait(ctx)
}

func (a *app) Close() {
	a.pool.Close()
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("error during shutdown")
		}
	}
}

// withApp loads configuration, sets up logging, and runs fn with a wired app.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Pretty); err != nil {
		return err
	}

	a := newApp(cfg)
	defer a.Close()

	return fn(cmd.Context(), a)
}
