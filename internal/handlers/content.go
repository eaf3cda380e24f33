package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/media-scan/internal/dashboard"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/queries"
)

// ContentHandler serves the read-only backend resources: articles, audience,
// moderation statistics and backend health.
type ContentHandler struct {
	queries *queries.Queries
	logger  logger.Logger
}

func NewContentHandler(q *queries.Queries, log logger.Logger) *ContentHandler {
	return &ContentHandler{queries: q, logger: log}
}

// Articles handles GET /articles?days=&limit=&media_id=&categorie=.
func (h *ContentHandler) Articles(c *gin.Context) {
	var params models.ArticleParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}
	if err := models.ValidateInput(params); err != nil {
		respondError(c, h.logger, "Invalid article filters", err)
		return
	}

	articles, err := h.queries.Articles(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.logger, "Failed to list articles", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"count":    len(articles),
	})
}

// Audience handles GET /audience/:channel?days=. For the inactive channel,
// days is the inactivity threshold.
func (h *ContentHandler) Audience(c *gin.Context) {
	days, err := intQuery(c, "days", dashboard.DefaultDays, maxDays)
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	channel := c.Param("channel")
	var (
		rows  any
		count int
	)
	switch channel {
	case models.ChannelWeb:
		var r []models.AudienceWeb
		r, err = h.queries.WebAudience(ctx, days)
		rows, count = r, len(r)
	case models.ChannelFacebook:
		var r []models.AudienceFacebook
		r, err = h.queries.FacebookAudience(ctx, days)
		rows, count = r, len(r)
	case models.ChannelTwitter:
		var r []models.AudienceTwitter
		r, err = h.queries.TwitterAudience(ctx, days)
		rows, count = r, len(r)
	case models.ChannelGlobal:
		var r []models.AudienceGlobal
		r, err = h.queries.GlobalAudience(ctx, days)
		rows, count = r, len(r)
	case models.ChannelInactive:
		var r []models.AudienceWeb
		r, err = h.queries.InactiveMedia(ctx, days)
		rows, count = r, len(r)
	default:
		respondBadRequest(c, h.logger, fmt.Errorf("%w: unknown channel %q", errBadParam, channel))
		return
	}
	if err != nil {
		respondError(c, h.logger, "Failed to load audience", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channel": channel,
		"days":    days,
		"results": rows,
		"count":   count,
	})
}

// ModerationStats handles GET /moderation/stats.
func (h *ContentHandler) ModerationStats(c *gin.Context) {
	stats, err := h.queries.ModerationStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to load moderation statistics", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// BackendHealth handles GET /backend/health from the cached probe.
func (h *ContentHandler) BackendHealth(c *gin.Context) {
	health, err := h.queries.Health(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Backend unavailable", err)
		return
	}
	c.JSON(http.StatusOK, health)
}

// MediaArticles handles GET /medias/:id/articles?limit=.
func (h *ContentHandler) MediaArticles(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}
	limit, err := intQuery(c, "limit", defaultMediaArticles, maxArticleLimit)
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	articles, err := h.queries.ArticlesByMedia(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, h.logger, "Failed to list media articles", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"media_id": id,
		"articles": articles,
		"count":    len(articles),
	})
}

// Classifications handles GET /classifications?categorie=&limit=.
func (h *ContentHandler) Classifications(c *gin.Context) {
	categorie := c.Query("categorie")
	if categorie == "" {
		respondBadRequest(c, h.logger, fmt.Errorf("%w: categorie is required", errBadParam))
		return
	}
	limit, err := intQuery(c, "limit", defaultClassifications, maxArticleLimit)
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	rows, err := h.queries.ClassificationsByCategory(c.Request.Context(), categorie, limit)
	if err != nil {
		respondError(c, h.logger, "Failed to list classifications", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categorie":       categorie,
		"classifications": rows,
		"count":           len(rows),
	})
}

// SocialPosts handles GET /social/:channel?media_id=&days=&limit= for the
// facebook and twitter channels.
func (h *ContentHandler) SocialPosts(c *gin.Context) {
	var params models.SocialParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}
	if err := models.ValidateInput(params); err != nil {
		respondError(c, h.logger, "Invalid social filters", err)
		return
	}

	ctx := c.Request.Context()
	channel := c.Param("channel")
	var (
		posts any
		count int
		err   error
	)
	switch channel {
	case models.ChannelFacebook:
		var p []models.FacebookPost
		p, err = h.queries.FacebookPosts(ctx, params)
		posts, count = p, len(p)
	case models.ChannelTwitter:
		var p []models.Tweet
		p, err = h.queries.Tweets(ctx, params)
		posts, count = p, len(p)
	default:
		respondBadRequest(c, h.logger, fmt.Errorf("%w: unknown channel %q", errBadParam, channel))
		return
	}
	if err != nil {
		respondError(c, h.logger, "Failed to list social posts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channel": channel,
		"results": posts,
		"count":   count,
	})
}
