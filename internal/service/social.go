package service

import (
	"context"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

type SocialService struct {
	client *apiclient.Client
}

func (s *SocialService) FacebookPosts(ctx context.Context, p models.SocialParams) ([]models.FacebookPost, error) {
	q := query("media_id", p.MediaID, "days", p.Days, "limit", p.Limit)
	return getList[models.FacebookPost](ctx, s.client, "facebook/posts/", q)
}

func (s *SocialService) Tweets(ctx context.Context, p models.SocialParams) ([]models.Tweet, error) {
	q := query("media_id", p.MediaID, "days", p.Days, "limit", p.Limit)
	return getList[models.Tweet](ctx, s.client, "twitter/tweets/", q)
}
