// Package api registers the media-scan HTTP routes.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/media-scan/internal/auth"
	"github.com/jonesrussell/north-cloud/media-scan/internal/dashboard"
	"github.com/jonesrussell/north-cloud/media-scan/internal/handlers"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/queries"
	"github.com/jonesrussell/north-cloud/media-scan/internal/scraping"
	"github.com/jonesrussell/north-cloud/media-scan/internal/server"
	"github.com/jonesrussell/north-cloud/media-scan/internal/telemetry"
)

// Deps are the components behind the routes.
type Deps struct {
	Queries   *queries.Queries
	Views     *dashboard.Views
	Tracker   *scraping.Tracker
	Reports   handlers.ReportGenerator
	Telemetry *telemetry.Provider
	Logger    logger.Logger

	ServiceName    string
	ServiceVersion string
	// JWTSecret guards mutating routes when set.
	JWTSecret string
	// ReportsPerMinute limits report downloads; zero disables the limit.
	ReportsPerMinute int
	HealthChecks     map[string]server.HealthChecker
}

// Routes returns the setup function passed to server.New.
func Routes(d Deps) func(*gin.Engine) {
	return func(router *gin.Engine) {
		server.RegisterHealthRoutes(router, d.ServiceName, d.ServiceVersion, d.HealthChecks)
		if d.Telemetry != nil {
			router.GET("/metrics", gin.WrapH(d.Telemetry.Handler()))
		}

		dash := handlers.NewDashboardHandler(d.Views, d.Logger)
		media := handlers.NewMediaHandler(d.Queries, d.Logger)
		content := handlers.NewContentHandler(d.Queries, d.Logger)
		scrape := handlers.NewScrapingHandler(d.Tracker, d.Queries, d.Logger)
		reports := handlers.NewReportHandler(d.Reports, d.Logger)

		protect := func(c *gin.Context) { c.Next() }
		if d.JWTSecret != "" {
			protect = auth.Middleware(d.JWTSecret)
		}

		v1 := router.Group("/api/v1")
		v1.GET("/backend/health", content.BackendHealth)

		dashboards := v1.Group("/dashboard")
		dashboards.GET("/overview", dash.Overview)
		dashboards.GET("/ranking", dash.Ranking)
		dashboards.GET("/compliance", dash.Compliance)
		dashboards.GET("/thematic", dash.Thematic)
		dashboards.GET("/sensitive", dash.Sensitive)
		dashboards.GET("/sensitive/:type/:id", dash.AlertDetail)

		medias := v1.Group("/medias")
		medias.GET("", media.List)
		medias.GET("/:id", media.GetByID)
		medias.POST("", protect, media.Create)
		medias.PUT("/:id", protect, media.Update)
		medias.DELETE("/:id", protect, media.Delete)
		medias.GET("/:id/articles", content.MediaArticles)

		v1.GET("/articles", content.Articles)
		v1.GET("/audience/:channel", content.Audience)
		v1.GET("/classifications", content.Classifications)
		v1.GET("/social/:channel", content.SocialPosts)
		v1.GET("/moderation/stats", content.ModerationStats)

		scrapes := v1.Group("/scraping")
		scrapes.POST("/launch", protect, scrape.Launch)
		scrapes.POST("/media", protect, scrape.ScrapeMedia)
		scrapes.POST("/all", protect, scrape.ScrapeAll)
		scrapes.GET("/tasks", scrape.Tasks)
		scrapes.GET("/tasks/:id", scrape.Task)
		scrapes.GET("/schedule", scrape.Schedule)
		scrapes.PUT("/schedule", protect, scrape.UpdateSchedule)
		scrapes.POST("/schedule/toggle", protect, scrape.ToggleSchedule)
		scrapes.GET("/history", scrape.History)

		v1.GET("/reports/:file", RateLimit(d.ReportsPerMinute, d.Logger), reports.Download)
	}
}
