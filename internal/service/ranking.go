package service

import (
	"context"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

type RankingService struct {
	client *apiclient.Client
}

func (s *RankingService) Get(ctx context.Context, days int) ([]models.RankingEntry, error) {
	return getList[models.RankingEntry](ctx, s.client, "ranking/", query("days", days))
}
