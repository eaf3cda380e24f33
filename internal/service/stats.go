package service

import (
	"context"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

type StatsService struct {
	client *apiclient.Client
}

// Overview returns global totals for the last days.
func (s *StatsService) Overview(ctx context.Context, days int) (models.Stats, error) {
	return getOne[models.Stats](ctx, s.client, "stats/", query("days", days))
}

func (s *StatsService) Health(ctx context.Context) (models.Health, error) {
	return getOne[models.Health](ctx, s.client, "health/", nil)
}
