// Package app bootstraps and runs the aapmcp server.
package app

import (
	"context"
	"fmt"
	"os"

	"aapmcp/internal/cache"
	"aapmcp/internal/config"
	"aapmcp/internal/controller"
	"aapmcp/internal/jobs"
	"aapmcp/internal/server"
	"aapmcp/pkg/logging"
)

// Options carries the command-line level settings into the bootstrap.
type Options struct {
	// Debug enables verbose logging across the application.
	Debug bool

	// ConfigPath points at an optional YAML configuration file. The
	// environment always overrides it.
	ConfigPath string

	// Version is the build version, reported in the MCP handshake.
	Version string
}

// Application bootstraps and runs the MCP server. Startup is two-phase:
// first the template cache is populated, then the tool set is synthesized
// from it and frozen for the process lifetime.
type Application struct {
	cfg     config.Config
	cache   *cache.TemplateCache
	invoker *jobs.Invoker
	server  *server.Server
}

// NewApplication loads configuration, initializes logging and wires the
// components together. It performs no network calls; those start in Run.
func NewApplication(opts Options) (*Application, error) {
	logLevel := logging.LevelInfo
	if opts.Debug {
		logLevel = logging.LevelDebug
	}
	// stderr, unconditionally: stdout may carry the MCP stdio stream.
	logging.Init(logLevel, os.Stderr)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Info("Bootstrap", "Configured for controller %s (transport: %s)",
		cfg.Controller.BaseURL, cfg.Server.Transport)

	client := controller.NewClient(
		cfg.Controller.BaseURL,
		cfg.Controller.Token,
		cfg.Controller.Version,
		controller.WithPageSize(cfg.Controller.PageSize),
	)

	templateCache := cache.New(client, cache.WithTTL(cfg.Controller.CacheTTL))
	invoker := jobs.NewInvoker(client)

	return &Application{
		cfg:     cfg,
		cache:   templateCache,
		invoker: invoker,
		server:  server.New(cfg.Server, templateCache, invoker, opts.Version),
	}, nil
}

// Run populates the cache, starts the MCP server and blocks until the
// context is cancelled. A failed initial fetch is survivable: the server
// starts with the static tools only and the cache retries on demand.
func (a *Application) Run(ctx context.Context) error {
	logging.Info("Bootstrap", "Fetching job templates from the controller...")
	if templates, err := a.cache.GetTemplates(ctx); err != nil {
		logging.Error("Bootstrap", err, "Initial template fetch failed; continuing with static tools only")
	} else {
		logging.Info("Bootstrap", "Discovered %d job templates", len(templates))
	}

	if err := a.server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}

	<-ctx.Done()

	// The serve context is already cancelled; give shutdown its own.
	return a.server.Stop(context.Background())
}
