package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/scheduler"
	"github.com/jonesrussell/north-cloud/media-scan/internal/scraping"
)

// ScrapingBackend is the backend side of scraping control.
// *queries.Queries satisfies it.
type ScrapingBackend interface {
	ScrapeAll(ctx context.Context, days int) (models.ScrapingResult, error)
	ScrapeMedia(ctx context.Context, mediaURL string, days int) (models.ScrapingResult, error)
	ScrapingSchedule(ctx context.Context) (models.ScrapingSchedule, error)
	UpdateSchedule(ctx context.Context, s models.ScrapingSchedule) (models.ScrapingSchedule, error)
	ToggleSchedule(ctx context.Context, enabled bool) (models.ScrapingSchedule, error)
	ScrapingHistory(ctx context.Context, limit int) (models.ScrapingHistory, error)
}

type ScrapingHandler struct {
	tracker *scraping.Tracker
	backend ScrapingBackend
	logger  logger.Logger
	now     func() time.Time
}

func NewScrapingHandler(tracker *scraping.Tracker, backend ScrapingBackend, log logger.Logger) *ScrapingHandler {
	return &ScrapingHandler{tracker: tracker, backend: backend, logger: log, now: time.Now}
}

// LaunchRequest is the body of POST /scraping/launch.
type LaunchRequest struct {
	Type string `binding:"required" json:"type"`
	Days int    `json:"days"`
}

// ScrapeRequest is the body of the synchronous scrape routes. URL is only
// read by POST /scraping/media.
type ScrapeRequest struct {
	URL  string `json:"url"`
	Days int    `json:"days"`
}

// ToggleRequest is the body of POST /scraping/schedule/toggle.
type ToggleRequest struct {
	Enabled *bool `binding:"required" json:"enabled"`
}

// Launch starts a tracked scraping task and answers 202 with its snapshot.
func (h *ScrapingHandler) Launch(c *gin.Context) {
	var req LaunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	task, err := h.tracker.Launch(c.Request.Context(), req.Type, req.Days)
	if err != nil {
		respondError(c, h.logger, "Failed to launch scraping", err)
		return
	}

	c.JSON(http.StatusAccepted, task)
}

func (h *ScrapingHandler) Tasks(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultTaskLimit, scraping.DefaultRetention)
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	tasks, err := h.tracker.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, "Failed to list scraping tasks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

func (h *ScrapingHandler) Task(c *gin.Context) {
	task, err := h.tracker.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Scraping task not found", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *ScrapingHandler) Schedule(c *gin.Context) {
	sched, err := h.backend.ScrapingSchedule(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to load scraping schedule", err)
		return
	}
	c.JSON(http.StatusOK, scheduler.FillNextRun(sched, h.now()))
}

func (h *ScrapingHandler) UpdateSchedule(c *gin.Context) {
	var sched models.ScrapingSchedule
	if err := c.ShouldBindJSON(&sched); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	updated, err := h.backend.UpdateSchedule(c.Request.Context(), sched)
	if err != nil {
		respondError(c, h.logger, "Failed to update scraping schedule", err)
		return
	}

	h.logger.Info("Scraping schedule updated",
		logger.Bool("enabled", updated.Enabled),
		logger.String("frequency", updated.Frequency),
	)
	c.JSON(http.StatusOK, scheduler.FillNextRun(updated, h.now()))
}

func (h *ScrapingHandler) ToggleSchedule(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	updated, err := h.backend.ToggleSchedule(c.Request.Context(), *req.Enabled)
	if err != nil {
		respondError(c, h.logger, "Failed to toggle scraping schedule", err)
		return
	}

	h.logger.Info("Scraping schedule toggled", logger.Bool("enabled", updated.Enabled))
	c.JSON(http.StatusOK, scheduler.FillNextRun(updated, h.now()))
}

// History handles GET /scraping/history?limit=, the backend's own run log.
func (h *ScrapingHandler) History(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultHistory, maxHistoryLimit)
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	history, err := h.backend.ScrapingHistory(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, "Failed to load scraping history", err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// ScrapeMedia handles POST /scraping/media and waits for the backend result.
func (h *ScrapingHandler) ScrapeMedia(c *gin.Context) {
	req := ScrapeRequest{Days: models.DefaultScrapeDays}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}
	if req.URL == "" {
		respondBadRequest(c, h.logger, fmt.Errorf("%w: url is required", errBadParam))
		return
	}

	res, err := h.backend.ScrapeMedia(c.Request.Context(), req.URL, req.Days)
	if err != nil {
		respondError(c, h.logger, "Failed to scrape media", err)
		return
	}

	h.logger.Info("Media scraped",
		logger.String("url", req.URL),
		logger.Int("collected", res.Collected()),
	)
	c.JSON(http.StatusOK, res)
}

// ScrapeAll handles POST /scraping/all and waits for the backend result.
func (h *ScrapingHandler) ScrapeAll(c *gin.Context) {
	req := ScrapeRequest{Days: models.DefaultScrapeDays}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	res, err := h.backend.ScrapeAll(c.Request.Context(), req.Days)
	if err != nil {
		respondError(c, h.logger, "Failed to scrape medias", err)
		return
	}

	h.logger.Info("All medias scraped", logger.Int("collected", res.Collected()))
	c.JSON(http.StatusOK, res)
}
