package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/service"
)

// Article limits per format.
const (
	PDFArticleLimit   = 50
	ExcelArticleLimit = 200

	historyLimit = 100
)

// Bundle is every backend resource a report needs, fetched for one window.
type Bundle struct {
	Period      Period
	Start, End  time.Time
	GeneratedAt time.Time

	Stats      models.Stats
	Ranking    []models.RankingEntry
	Categories []models.CategoryStat
	History    models.ScrapingHistory
	Medias     []models.Media
	Articles   []models.Article
}

// Fetch loads a bundle straight from the services, bypassing the query
// cache. The five window resources load in parallel, then the articles.
// Any failure aborts the bundle.
func Fetch(ctx context.Context, svc *service.Services, p Period, articleLimit int, now time.Time) (Bundle, error) {
	days := p.Days()
	b := Bundle{
		Period:      p,
		Start:       now.AddDate(0, 0, -days),
		End:         now,
		GeneratedAt: now,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b.Stats, err = svc.Stats.Overview(gctx, days)
		return wrap("stats", err)
	})
	g.Go(func() (err error) {
		b.Ranking, err = svc.Ranking.Get(gctx, days)
		return wrap("ranking", err)
	})
	g.Go(func() (err error) {
		b.Categories, err = svc.Classification.Stats(gctx, days)
		return wrap("classification stats", err)
	})
	g.Go(func() (err error) {
		b.History, err = svc.Scraping.History(gctx, historyLimit)
		return wrap("scraping history", err)
	})
	g.Go(func() (err error) {
		b.Medias, err = svc.Media.List(gctx)
		return wrap("medias", err)
	})
	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}

	articles, err := svc.Articles.Recent(ctx, days, articleLimit)
	if err != nil {
		return Bundle{}, wrap("articles", err)
	}
	b.Articles = articles
	return b, nil
}

func wrap(resource string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("fetch %s: %w", resource, err)
}
