package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Joseda-hg/lazystandup/internal/archive"
	"github.com/Joseda-hg/lazystandup/internal/config"
	"github.com/Joseda-hg/lazystandup/internal/db"
	"github.com/Joseda-hg/lazystandup/internal/standup"
	"github.com/Joseda-hg/lazystandup/internal/todo"
	"github.com/spf13/cobra"
)

// app holds everything a command needs once config has been resolved.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	resolver *archive.Resolver
	sink     *archive.Dir
	todos    *todo.Store
	now      func() time.Time

	conn *sql.DB
}

// loadConfig reads the config file, applies flag overrides and writes the
// result back so later runs reuse it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgPath, err := resolveConfigPath(globalFlags.configPath)
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = globalFlags.dbPath
	}
	if flags.Changed("dir") {
		cfg.StandupsDir = globalFlags.dir
	}
	if flags.Changed("url") {
		cfg.StandupsURL = globalFlags.url
	}
	if flags.Changed("log-level") {
		if _, err := config.ParseLogLevel(globalFlags.logLevel); err != nil {
			return config.Config{}, err
		}
		cfg.LogLevel = globalFlags.logLevel
	}
	cfg.ApplyDefaults(cfgPath)

	if err := config.Save(cfgPath, cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

func clock() (func() time.Time, error) {
	if globalFlags.today == "" {
		return time.Now, nil
	}
	day, err := standup.ParseISODate(globalFlags.today)
	if err != nil {
		return nil, fmt.Errorf("invalid --today %q: %w", globalFlags.today, err)
	}
	return func() time.Time {
		now := time.Now()
		return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, day.Location())
	}, nil
}

// openApp wires config, logging, storage and the standup archive, then
// loads the todo list.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	now, err := clock()
	if err != nil {
		return nil, err
	}

	conn, err := openDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	sink := archive.NewDir(cfg.StandupsDir)
	var source archive.Source = sink
	if cfg.StandupsURL != "" {
		source = archive.NewHTTP(cfg.StandupsURL, cfg.FetchTimeout.Duration)
	}
	resolver := archive.NewResolver(source, logger)

	todos := todo.NewStore(db.NewStore(conn),
		todo.WithResolver(resolver),
		todo.WithSink(sink),
		todo.WithLogger(logger),
		todo.WithClock(now),
	)
	todos.Load(cmd.Context())

	return &app{
		cfg:      cfg,
		logger:   logger,
		resolver: resolver,
		sink:     sink,
		todos:    todos,
		now:      now,
		conn:     conn,
	}, nil
}

func (a *app) Close() error {
	return a.conn.Close()
}

func (a *app) latest(ctx context.Context) (archive.Document, error) {
	today := a.now()
	return a.resolver.Latest(ctx, standup.ISODate(today), standup.ISODate(standup.PreviousDay(today)))
}

func openDB(dbPath string) (*sql.DB, error) {
	if err := config.EnsureDir(dbPath); err != nil {
		return nil, err
	}
	return db.Open(dbPath)
}
