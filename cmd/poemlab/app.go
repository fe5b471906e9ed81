package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"poemlab/internal/analyzer"
	"poemlab/internal/cache"
	"poemlab/internal/config"
	"poemlab/internal/db"
	"poemlab/internal/logging"
	"poemlab/internal/phonetics"
	"poemlab/internal/workspace"
)

// App carries what every command needs.
type App struct {
	cfg       *config.Config
	log       *zap.Logger
	workspace string
	store     cache.Store
	closers   []func() error
}

func newApp(configPath, workspaceDir, logLevel string) (*App, error) {
	if workspaceDir != "" {
		root, err := workspace.EnsureAt(workspaceDir)
		if err != nil {
			return nil, err
		}
		workspaceDir = root
		if configPath == "" {
			configPath = workspace.SettingsPath(root)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	switch {
	case workspaceDir != "":
	case cfg.Workspace != "":
		if workspaceDir, err = workspace.EnsureAt(cfg.Workspace); err != nil {
			return nil, err
		}
	case cfg.Cache.Backend == "file":
		if workspaceDir, err = workspace.EnsureDefault(); err != nil {
			return nil, err
		}
		if cfg.Cache.Dir == config.DefaultCacheDir {
			cfg.Cache.Dir = workspace.CacheDir(workspaceDir)
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, err
	}

	app := &App{cfg: cfg, log: log, workspace: workspaceDir}
	app.store, err = app.openStore()
	if err != nil {
		return nil, err
	}
	log.Debug("cache ready", zap.String("backend", cfg.Cache.Backend), zap.Duration("ttl", cfg.Cache.TTL))
	return app, nil
}

func (a *App) openStore() (cache.Store, error) {
	c := a.cfg.Cache
	switch c.Backend {
	case "none":
		return cache.NopStore{}, nil
	case "memory":
		return cache.NewMemoryStore(), nil
	case "file":
		return cache.NewFileStore(c.Dir)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(c.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		s, err := db.OpenStore(c.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			DB:       a.cfg.Redis.DB,
			Password: a.cfg.Redis.Password,
		})
		a.closers = append(a.closers, client.Close)
		return cache.NewRedisStore(client, c.TTL), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
}

func (a *App) newAnalyzer(opts ...analyzer.Option) (*analyzer.Analyzer, error) {
	base := []analyzer.Option{
		analyzer.WithLogger(a.log),
		analyzer.WithCache(a.store, a.cfg.Cache.Prefix),
		analyzer.WithTTL(a.cfg.Cache.TTL),
	}
	if path := a.cfg.Dictionary.Path; path != "" {
		extra, err := phonetics.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load dictionary %s: %w", path, err)
		}
		dict := phonetics.NewDictionary()
		dict.Merge(phonetics.Default())
		dict.Merge(extra)
		base = append(base, analyzer.WithDictionary(dict))
	}
	return analyzer.New(append(base, opts...)...), nil
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
