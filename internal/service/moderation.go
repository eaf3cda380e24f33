package service

import (
	"context"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// DefaultFlaggedLimit bounds the flagged content list.
const DefaultFlaggedLimit = 50

type ModerationService struct {
	client *apiclient.Client
}

func (s *ModerationService) Stats(ctx context.Context) (models.ModerationStats, error) {
	return getOne[models.ModerationStats](ctx, s.client, "moderation/stats/", nil)
}

// Flagged lists flagged content, optionally for one content type.
func (s *ModerationService) Flagged(ctx context.Context, contentType string, limit int) ([]models.FlaggedContent, error) {
	if limit <= 0 {
		limit = DefaultFlaggedLimit
	}
	q := query("content_type", contentType, "limit", limit)
	return getList[models.FlaggedContent](ctx, s.client, "moderation/flagged/", q)
}

func (s *ModerationService) Content(ctx context.Context, contentType string, id int) (models.ContentModeration, error) {
	return getOne[models.ContentModeration](ctx, s.client, "moderation/content/", query("type", contentType, "id", id))
}
