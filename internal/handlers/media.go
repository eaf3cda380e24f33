package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/queries"
)

type MediaHandler struct {
	queries *queries.Queries
	logger  logger.Logger
}

func NewMediaHandler(q *queries.Queries, log logger.Logger) *MediaHandler {
	return &MediaHandler{queries: q, logger: log}
}

func (h *MediaHandler) List(c *gin.Context) {
	medias, err := h.queries.Medias(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to list medias", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"medias": medias,
		"count":  len(medias),
	})
}

func (h *MediaHandler) GetByID(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	media, err := h.queries.Media(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Media not found", err)
		return
	}

	c.JSON(http.StatusOK, media)
}

func (h *MediaHandler) Create(c *gin.Context) {
	var in models.MediaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	media, err := h.queries.CreateMedia(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "Failed to create media", err)
		return
	}

	h.logger.Info("Media created",
		logger.MediaID(media.ID),
		logger.String("media_name", media.Nom),
	)

	c.JSON(http.StatusCreated, media)
}

func (h *MediaHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	var in models.MediaInput
	if err = c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	media, err := h.queries.UpdateMedia(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, "Failed to update media", err)
		return
	}

	h.logger.Info("Media updated",
		logger.MediaID(id),
		logger.String("media_name", media.Nom),
	)

	c.JSON(http.StatusOK, media)
}

func (h *MediaHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondBadRequest(c, h.logger, err)
		return
	}

	if err = h.queries.DeleteMedia(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to delete media", err)
		return
	}

	h.logger.Info("Media deleted", logger.MediaID(id))

	c.Status(http.StatusNoContent)
}
