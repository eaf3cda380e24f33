package service

import (
	"context"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

const (
	classificationsPath       = "classifications/"
	classificationStatsPath   = "classifications/stats/"
	classificationsWeeklyPath = "classifications/weekly/"
)

type ClassificationService struct {
	client *apiclient.Client
}

func (s *ClassificationService) List(ctx context.Context, p models.ClassificationParams) ([]models.Classification, error) {
	q := query("categorie", p.Categorie, "days", p.Days, "limit", p.Limit)
	return getList[models.Classification](ctx, s.client, classificationsPath, q)
}

func (s *ClassificationService) ByCategory(ctx context.Context, categorie string, limit int) ([]models.Classification, error) {
	return s.List(ctx, models.ClassificationParams{Categorie: categorie, Limit: limit})
}

// Stats returns per-category totals over the last days.
func (s *ClassificationService) Stats(ctx context.Context, days int) ([]models.CategoryStat, error) {
	return getList[models.CategoryStat](ctx, s.client, classificationStatsPath, query("days", days))
}

// WeeklyStats returns per-week, per-category totals over the last weeks.
func (s *ClassificationService) WeeklyStats(ctx context.Context, weeks int) ([]models.WeeklyCategoryStat, error) {
	return getList[models.WeeklyCategoryStat](ctx, s.client, classificationsWeeklyPath, query("weeks", weeks))
}
