// Package bootstrap wires the media-scan components together and runs the
// service lifecycle.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/config"
	"github.com/jonesrussell/north-cloud/media-scan/internal/dashboard"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/queries"
	"github.com/jonesrussell/north-cloud/media-scan/internal/querycache"
	"github.com/jonesrussell/north-cloud/media-scan/internal/report"
	"github.com/jonesrussell/north-cloud/media-scan/internal/scraping"
	"github.com/jonesrussell/north-cloud/media-scan/internal/service"
	"github.com/jonesrussell/north-cloud/media-scan/internal/telemetry"
	goredis "github.com/redis/go-redis/v9"
)

const healthRefreshInterval = time.Minute

// App holds every long-lived component.
type App struct {
	Config    *config.Config
	Logger    logger.Logger
	Version   string
	Telemetry *telemetry.Provider
	Client    *apiclient.Client
	Services  *service.Services
	Cache     *querycache.Cache
	Queries   *queries.Queries
	Views     *dashboard.Views
	Tracker   *scraping.Tracker
	Reports   *report.Generator

	redis *goredis.Client
}

// New builds the component graph. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, version string) (*App, error) {
	app := &App{Config: cfg, Logger: log, Version: version, Telemetry: telemetry.NewProvider()}

	client, err := apiclient.New(cfg.Backend,
		apiclient.WithLogger(log),
		apiclient.WithTelemetry(app.Telemetry),
	)
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	app.Client = client
	app.Services = service.New(client)

	app.redis, err = SetupRedis(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var store querycache.Store = querycache.NewMemoryStore()
	if cfg.Cache.Store == config.CacheStoreRedis {
		store = querycache.NewRedisStore(app.redis, cfg.Redis.KeyPrefix, cfg.Cache.GCTime)
	}
	app.Cache = querycache.New(store,
		querycache.Config{GCTime: cfg.Cache.GCTime, SweepInterval: cfg.Cache.SweepInterval},
		querycache.WithLogger(log),
		querycache.WithMetrics(app.Telemetry.Metrics),
	)
	app.Queries = queries.New(app.Cache, app.Services, log)

	app.Views, err = dashboard.New(app.Queries, cfg.Dashboard, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("create dashboard views: %w", err)
	}

	var tasks scraping.Store = scraping.NewMemoryStore(scraping.DefaultRetention)
	if app.redis != nil {
		tasks = scraping.NewRedisStore(app.redis, cfg.Redis.KeyPrefix, scraping.DefaultRetention)
	}
	app.Tracker = scraping.NewTracker(tasks, app.Queries,
		scraping.WithLogger(log),
		scraping.WithMetrics(app.Telemetry.Metrics),
	)

	app.Reports = report.NewGenerator(app.Services,
		report.WithLogger(log),
		report.WithMetrics(app.Telemetry.Metrics),
		report.WithLocation(cfg.Location()),
	)

	log.Info("Components initialized",
		logger.String("backend_url", client.BaseURL()),
		logger.String("cache_store", cfg.Cache.Store),
		logger.Bool("redis", app.redis != nil),
		logger.String("compliance_rule", cfg.Dashboard.ComplianceRule),
	)
	return app, nil
}

// Background starts the cache sweeper and the backend health refresher.
// Both stop when ctx is done.
func (a *App) Background(ctx context.Context) {
	go a.Cache.Run(ctx)
	go a.Queries.KeepHealthFresh(ctx, healthRefreshInterval)
}

// Close waits for in-flight work and releases connections.
func (a *App) Close() {
	if a.Tracker != nil {
		a.Tracker.Wait()
	}
	if a.Cache != nil {
		a.Cache.Wait()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Error("Failed to close redis", logger.Error(err))
		}
	}
}
