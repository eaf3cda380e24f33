package service

import (
	"context"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

type AudienceService struct {
	client *apiclient.Client
}

func (s *AudienceService) Web(ctx context.Context, days int) ([]models.AudienceWeb, error) {
	return getList[models.AudienceWeb](ctx, s.client, "audience/web/", query("days", days))
}

func (s *AudienceService) Facebook(ctx context.Context, days int) ([]models.AudienceFacebook, error) {
	return getList[models.AudienceFacebook](ctx, s.client, "audience/facebook/", query("days", days))
}

func (s *AudienceService) Twitter(ctx context.Context, days int) ([]models.AudienceTwitter, error) {
	return getList[models.AudienceTwitter](ctx, s.client, "audience/twitter/", query("days", days))
}

func (s *AudienceService) Global(ctx context.Context, days int) ([]models.AudienceGlobal, error) {
	return getList[models.AudienceGlobal](ctx, s.client, "audience/global/", query("days", days))
}

// Inactive lists media without a web publication for at least threshold days.
func (s *AudienceService) Inactive(ctx context.Context, threshold int) ([]models.AudienceWeb, error) {
	return getList[models.AudienceWeb](ctx, s.client, "audience/inactive/", query("days", threshold))
}
