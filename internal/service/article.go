package service

import (
	"context"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

const articlesPath = "articles/"

type ArticleService struct {
	client *apiclient.Client
}

func (s *ArticleService) List(ctx context.Context, p models.ArticleParams) ([]models.Article, error) {
	q := query("days", p.Days, "limit", p.Limit, "media_id", p.MediaID, "categorie", p.Categorie)
	return getList[models.Article](ctx, s.client, articlesPath, q)
}

func (s *ArticleService) ByMedia(ctx context.Context, mediaID, limit int) ([]models.Article, error) {
	return s.List(ctx, models.ArticleParams{MediaID: mediaID, Limit: limit})
}

// Recent lists articles published in the last days.
func (s *ArticleService) Recent(ctx context.Context, days, limit int) ([]models.Article, error) {
	return s.List(ctx, models.ArticleParams{Days: days, Limit: limit})
}
