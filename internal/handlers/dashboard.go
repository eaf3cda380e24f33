package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/media-scan/internal/dashboard"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

const (
	maxDays                = 365
	maxWeeks               = 52
	maxFlaggedLimit        = 500
	maxArticleLimit        = 1000
	defaultMediaArticles   = 20
	defaultClassifications = 50
	defaultHistory         = 20
	maxHistoryLimit        = 100
	defaultTaskLimit       = 20
)

// DashboardHandler serves the computed dashboard views.
type DashboardHandler struct {
	views  *dashboard.Views
	logger logger.Logger
}

func NewDashboardHandler(views *dashboard.Views, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{views: views, logger: log}
}

// Overview handles GET /dashboard/overview?days=.
func (h *DashboardHandler) Overview(c *gin.Context) {
	days, err := intQuery(c, "days", dashboard.DefaultDays, maxDays)
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.views.Overview(c.Request.Context(), days))
}

// Ranking handles GET /dashboard/ranking?days=.
func (h *DashboardHandler) Ranking(c *gin.Context) {
	days, err := intQuery(c, "days", dashboard.DefaultDays, maxDays)
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.views.Ranking(c.Request.Context(), days))
}

// Compliance handles GET /dashboard/compliance?days=&rule=.
func (h *DashboardHandler) Compliance(c *gin.Context) {
	days, err := intQuery(c, "days", dashboard.DefaultComplianceDays, maxDays)
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}
	view, err := h.views.Compliance(c.Request.Context(), days, c.Query("rule"))
	if err != nil {
		respondError(c, h.logger, "Unknown compliance rule", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Thematic handles GET /dashboard/thematic?days=&weeks=.
func (h *DashboardHandler) Thematic(c *gin.Context) {
	days, err := intQuery(c, "days", dashboard.DefaultDays, maxDays)
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}
	weeks, err := intQuery(c, "weeks", dashboard.DefaultWeeks, maxWeeks)
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.views.Thematic(c.Request.Context(), days, weeks))
}

// Sensitive handles GET /dashboard/sensitive?limit=.
func (h *DashboardHandler) Sensitive(c *gin.Context) {
	limit, err := intQuery(c, "limit", dashboard.DefaultFlaggedLimit, maxFlaggedLimit)
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.views.Sensitive(c.Request.Context(), limit))
}

// AlertDetail handles GET /dashboard/sensitive/:type/:id.
func (h *DashboardHandler) AlertDetail(c *gin.Context) {
	contentType := c.Param("type")
	switch contentType {
	case models.ContentArticle, models.ContentFacebook, models.ContentTweet:
	default:
		respondBadRequest(c, h.logger, fmt.Errorf("%w: unknown content type %q", errBadParam, contentType))
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	detail, err := h.views.AlertDetail(c.Request.Context(), contentType, id)
	if err != nil {
		respondError(c, h.logger, "Failed to load alert", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
