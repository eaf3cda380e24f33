package bootstrap

import (
	"context"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/api"
	"github.com/jonesrussell/north-cloud/media-scan/internal/circuitbreaker"
	infraredis "github.com/jonesrussell/north-cloud/media-scan/internal/redis"
	"github.com/jonesrussell/north-cloud/media-scan/internal/server"
)

// SetupHTTPServer creates the HTTP server with every route registered.
func SetupHTTPServer(app *App) *server.Server {
	cfg := app.Config
	srvCfg := server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Debug:           cfg.Debug,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		CORS: server.CORSConfig{
			Enabled:          true,
			AllowedOrigins:   cfg.Server.CORSOrigins,
			AllowCredentials: true,
		},
		ServiceName:    serviceName,
		ServiceVersion: app.Version,
	}

	routes := api.Routes(api.Deps{
		Queries:          app.Queries,
		Views:            app.Views,
		Tracker:          app.Tracker,
		Reports:          app.Reports,
		Telemetry:        app.Telemetry,
		Logger:           app.Logger,
		ServiceName:      serviceName,
		ServiceVersion:   app.Version,
		JWTSecret:        cfg.Auth.JWTSecret,
		ReportsPerMinute: cfg.Reports.PerMinute,
		HealthChecks:     app.healthChecks(),
	})
	return server.New(srvCfg, app.Logger, routes)
}

// healthChecks reports backend failures as degraded. Only a lost Redis
// connection makes the service unhealthy.
func (a *App) healthChecks() map[string]server.HealthChecker {
	checks := map[string]server.HealthChecker{
		"backend": func(ctx context.Context) server.CheckResult {
			start := time.Now()
			if a.Client.BreakerState() == circuitbreaker.StateOpen {
				return server.CheckResult{Status: server.HealthStatusDegraded, Message: "circuit breaker open"}
			}
			if _, err := a.Queries.Health(ctx); err != nil {
				return server.CheckResult{Status: server.HealthStatusDegraded, Message: err.Error()}
			}
			return server.CheckResult{Status: server.HealthStatusHealthy, Latency: time.Since(start).String()}
		},
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) server.CheckResult {
			latency, err := infraredis.Ping(ctx, a.redis)
			if err != nil {
				return server.CheckResult{Status: server.HealthStatusUnhealthy, Message: err.Error()}
			}
			return server.CheckResult{Status: server.HealthStatusHealthy, Latency: latency.String()}
		}
	}
	return checks
}
