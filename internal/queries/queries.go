// Package queries wraps every service read in a cached query and every
// mutation in a call that invalidates the keys it affects.
package queries

import (
	"context"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/querycache"
	"github.com/jonesrussell/north-cloud/media-scan/internal/service"
)

type Key = querycache.Key

// Queries is the cached read and invalidating write surface used by views.
type Queries struct {
	cache *querycache.Cache
	svc   *service.Services
	log   logger.Logger
}

func New(cache *querycache.Cache, svc *service.Services, log logger.Logger) *Queries {
	if log == nil {
		log = logger.NewNop()
	}
	return &Queries{cache: cache, svc: svc, log: log}
}

// Services exposes the uncached services, used by report generation.
func (q *Queries) Services() *service.Services { return q.svc }

func cached[T any](ctx context.Context, q *Queries, key Key, stale time.Duration, fn func(context.Context) (T, error)) (T, error) {
	return querycache.Fetch(ctx, q.cache, querycache.Query[T]{Key: key, StaleAfter: stale, Fn: fn})
}

// invalidate logs failures: a mutation that reached the backend is not
// reported as failed because an eviction did not.
func (q *Queries) invalidate(ctx context.Context, prefixes ...Key) {
	if err := q.cache.InvalidateAll(ctx, prefixes...); err != nil {
		q.log.Warn("Cache invalidation failed", logger.Error(err))
	}
}

// Media

func (q *Queries) Medias(ctx context.Context) ([]models.Media, error) {
	return cached(ctx, q, Key{keyMedia}, MediaStaleness, q.svc.Media.List)
}

func (q *Queries) Media(ctx context.Context, id int) (models.Media, error) {
	return cached(ctx, q, Key{keyMedia, id}, MediaStaleness, func(ctx context.Context) (models.Media, error) {
		return q.svc.Media.Get(ctx, id)
	})
}

// mediaDerived are the keys whose values depend on the media list.
func mediaDerived() []Key {
	return []Key{{keyMedia}, {keyRanking}, {keyStats}, {keyAudience}}
}

func (q *Queries) CreateMedia(ctx context.Context, in models.MediaInput) (models.Media, error) {
	m, err := q.svc.Media.Create(ctx, in)
	if err != nil {
		return m, err
	}
	q.invalidate(ctx, mediaDerived()...)
	return m, nil
}

func (q *Queries) UpdateMedia(ctx context.Context, id int, in models.MediaInput) (models.Media, error) {
	m, err := q.svc.Media.Update(ctx, id, in)
	if err != nil {
		return m, err
	}
	q.invalidate(ctx, mediaDerived()...)
	return m, nil
}

func (q *Queries) DeleteMedia(ctx context.Context, id int) error {
	if err := q.svc.Media.Delete(ctx, id); err != nil {
		return err
	}
	// deletion cascades to articles on the backend
	q.invalidate(ctx, append(mediaDerived(), Key{keyArticles})...)
	return nil
}

// Articles

func (q *Queries) Articles(ctx context.Context, p models.ArticleParams) ([]models.Article, error) {
	return cached(ctx, q, Key{keyArticles, p}, ArticleStaleness, func(ctx context.Context) ([]models.Article, error) {
		return q.svc.Articles.List(ctx, p)
	})
}

func (q *Queries) ArticlesByMedia(ctx context.Context, mediaID, limit int) ([]models.Article, error) {
	return cached(ctx, q, Key{keyArticles, keyMedia, mediaID, limit}, ArticleStaleness, func(ctx context.Context) ([]models.Article, error) {
		return q.svc.Articles.ByMedia(ctx, mediaID, limit)
	})
}

func (q *Queries) RecentArticles(ctx context.Context, days, limit int) ([]models.Article, error) {
	return cached(ctx, q, Key{keyArticles, "recent", days, limit}, ArticleStaleness, func(ctx context.Context) ([]models.Article, error) {
		return q.svc.Articles.Recent(ctx, days, limit)
	})
}

// Social

func (q *Queries) FacebookPosts(ctx context.Context, p models.SocialParams) ([]models.FacebookPost, error) {
	return cached(ctx, q, Key{keySocial, models.ChannelFacebook, p}, ArticleStaleness, func(ctx context.Context) ([]models.FacebookPost, error) {
		return q.svc.Social.FacebookPosts(ctx, p)
	})
}

func (q *Queries) Tweets(ctx context.Context, p models.SocialParams) ([]models.Tweet, error) {
	return cached(ctx, q, Key{keySocial, models.ChannelTwitter, p}, ArticleStaleness, func(ctx context.Context) ([]models.Tweet, error) {
		return q.svc.Social.Tweets(ctx, p)
	})
}

// Classifications

func (q *Queries) ClassificationsByCategory(ctx context.Context, categorie string, limit int) ([]models.Classification, error) {
	return cached(ctx, q, Key{keyClassifications, "category", categorie, limit}, ClassificationStaleness,
		func(ctx context.Context) ([]models.Classification, error) {
			return q.svc.Classification.ByCategory(ctx, categorie, limit)
		})
}

func (q *Queries) ClassificationStats(ctx context.Context, days int) ([]models.CategoryStat, error) {
	return cached(ctx, q, Key{keyClassifications, keyStats, days}, ClassificationStaleness,
		func(ctx context.Context) ([]models.CategoryStat, error) {
			return q.svc.Classification.Stats(ctx, days)
		})
}

func (q *Queries) WeeklyClassificationStats(ctx context.Context, weeks int) ([]models.WeeklyCategoryStat, error) {
	return cached(ctx, q, Key{keyClassifications, "weekly", weeks}, ClassificationStaleness,
		func(ctx context.Context) ([]models.WeeklyCategoryStat, error) {
			return q.svc.Classification.WeeklyStats(ctx, weeks)
		})
}

// Audience

func (q *Queries) WebAudience(ctx context.Context, days int) ([]models.AudienceWeb, error) {
	return cached(ctx, q, Key{keyAudience, models.ChannelWeb, days}, AudienceStaleness, func(ctx context.Context) ([]models.AudienceWeb, error) {
		return q.svc.Audience.Web(ctx, days)
	})
}

func (q *Queries) FacebookAudience(ctx context.Context, days int) ([]models.AudienceFacebook, error) {
	return cached(ctx, q, Key{keyAudience, models.ChannelFacebook, days}, AudienceStaleness, func(ctx context.Context) ([]models.AudienceFacebook, error) {
		return q.svc.Audience.Facebook(ctx, days)
	})
}

func (q *Queries) TwitterAudience(ctx context.Context, days int) ([]models.AudienceTwitter, error) {
	return cached(ctx, q, Key{keyAudience, models.ChannelTwitter, days}, AudienceStaleness, func(ctx context.Context) ([]models.AudienceTwitter, error) {
		return q.svc.Audience.Twitter(ctx, days)
	})
}

func (q *Queries) GlobalAudience(ctx context.Context, days int) ([]models.AudienceGlobal, error) {
	return cached(ctx, q, Key{keyAudience, models.ChannelGlobal, days}, AudienceStaleness, func(ctx context.Context) ([]models.AudienceGlobal, error) {
		return q.svc.Audience.Global(ctx, days)
	})
}

func (q *Queries) InactiveMedia(ctx context.Context, threshold int) ([]models.AudienceWeb, error) {
	return cached(ctx, q, Key{keyAudience, models.ChannelInactive, threshold}, InactiveStaleness, func(ctx context.Context) ([]models.AudienceWeb, error) {
		return q.svc.Audience.Inactive(ctx, threshold)
	})
}

// Ranking and stats

func (q *Queries) Ranking(ctx context.Context, days int) ([]models.RankingEntry, error) {
	return cached(ctx, q, Key{keyRanking, days}, RankingStaleness, func(ctx context.Context) ([]models.RankingEntry, error) {
		return q.svc.Ranking.Get(ctx, days)
	})
}

func (q *Queries) Stats(ctx context.Context, days int) (models.Stats, error) {
	return cached(ctx, q, Key{keyStats, days}, StatsStaleness, func(ctx context.Context) (models.Stats, error) {
		return q.svc.Stats.Overview(ctx, days)
	})
}

func (q *Queries) Health(ctx context.Context) (models.Health, error) {
	return cached(ctx, q, Key{keyHealth}, HealthStaleness, q.svc.Stats.Health)
}

// KeepHealthFresh refetches backend health every interval until ctx is done.
func (q *Queries) KeepHealthFresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.invalidate(ctx, Key{keyHealth})
			if _, err := q.Health(ctx); err != nil && ctx.Err() == nil {
				q.log.Warn("Backend health check failed", logger.Error(err))
			}
		}
	}
}

// Moderation

func (q *Queries) ModerationStats(ctx context.Context) (models.ModerationStats, error) {
	return cached(ctx, q, Key{keyModeration, keyStats}, ModerationStaleness, q.svc.Moderation.Stats)
}

func (q *Queries) FlaggedContent(ctx context.Context, contentType string, limit int) ([]models.FlaggedContent, error) {
	return cached(ctx, q, Key{keyModeration, "flagged", contentType, limit}, ModerationStaleness,
		func(ctx context.Context) ([]models.FlaggedContent, error) {
			return q.svc.Moderation.Flagged(ctx, contentType, limit)
		})
}

func (q *Queries) ContentModeration(ctx context.Context, contentType string, id int) (models.ContentModeration, error) {
	return cached(ctx, q, Key{keyModeration, "content", contentType, id}, ModerationStaleness,
		func(ctx context.Context) (models.ContentModeration, error) {
			return q.svc.Moderation.Content(ctx, contentType, id)
		})
}

// Scraping

func (q *Queries) ScrapingSchedule(ctx context.Context) (models.ScrapingSchedule, error) {
	return cached(ctx, q, Key{keyScraping, "schedule"}, ScheduleStaleness, q.svc.Scraping.Schedule)
}

func (q *Queries) ScrapingHistory(ctx context.Context, limit int) (models.ScrapingHistory, error) {
	return cached(ctx, q, Key{keyScraping, "history", limit}, HistoryStaleness, func(ctx context.Context) (models.ScrapingHistory, error) {
		return q.svc.Scraping.History(ctx, limit)
	})
}

// scrapeDerived are the keys a finished scraping run makes stale.
func scrapeDerived() []Key {
	return []Key{{keyArticles}, {keySocial}, {keyStats}, {keyRanking}, {keyScraping, "history"}}
}

func (q *Queries) TriggerScraping(ctx context.Context, req models.ScrapingRequest) (models.ScrapingResult, error) {
	res, err := q.svc.Scraping.Trigger(ctx, req)
	if err != nil {
		return res, err
	}
	q.invalidate(ctx, scrapeDerived()...)
	return res, nil
}

func (q *Queries) ScrapeAll(ctx context.Context, days int) (models.ScrapingResult, error) {
	res, err := q.svc.Scraping.ScrapeAll(ctx, days)
	if err != nil {
		return res, err
	}
	q.invalidate(ctx, scrapeDerived()...)
	return res, nil
}

func (q *Queries) ScrapeMedia(ctx context.Context, mediaURL string, days int) (models.ScrapingResult, error) {
	res, err := q.svc.Scraping.ScrapeMedia(ctx, mediaURL, days)
	if err != nil {
		return res, err
	}
	q.invalidate(ctx, scrapeDerived()...)
	return res, nil
}

func (q *Queries) UpdateSchedule(ctx context.Context, s models.ScrapingSchedule) (models.ScrapingSchedule, error) {
	out, err := q.svc.Scraping.UpdateSchedule(ctx, s)
	if err != nil {
		return out, err
	}
	q.invalidate(ctx, Key{keyScraping, "schedule"})
	return out, nil
}

func (q *Queries) ToggleSchedule(ctx context.Context, enabled bool) (models.ScrapingSchedule, error) {
	out, err := q.svc.Scraping.ToggleSchedule(ctx, enabled)
	if err != nil {
		return out, err
	}
	q.invalidate(ctx, Key{keyScraping, "schedule"})
	return out, nil
}
