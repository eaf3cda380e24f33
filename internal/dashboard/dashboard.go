// Package dashboard derives the presentation-ready views of the monitoring
// dashboard from cached backend reads.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/north-cloud/media-scan/internal/config"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/queries"
)

// View defaults.
const (
	DefaultDays           = 30
	DefaultComplianceDays = RequiredDays
	DefaultWeeks          = 5
	DefaultFlaggedLimit   = 50

	overviewArticleLimit = 500
	fallbackArticleDays  = 7
	fallbackArticleLimit = 200
	detailArticleDays    = 30
	detailArticleLimit   = 1000
	detailFlaggedLimit   = 500
)

// ErrAlertNotFound is returned when no flagged record matches an alert.
var ErrAlertNotFound = errors.New("alert not found")

// Views builds every dashboard view. Views that fail to load degrade to an
// empty view carrying a notice; only AlertDetail returns errors.
type Views struct {
	q        *queries.Queries
	rule     Rule
	keywords *KeywordMatcher
	loc      *time.Location
	log      logger.Logger
	now      func() time.Time
}

// New builds the views from the dashboard configuration.
func New(q *queries.Queries, cfg config.DashboardConfig, log logger.Logger) (*Views, error) {
	rule, err := RuleByName(cfg.ComplianceRule)
	if err != nil {
		return nil, err
	}
	lists, err := LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		return nil, err
	}
	loc := time.UTC
	if cfg.Timezone != "" {
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("load dashboard timezone: %w", err)
		}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Views{
		q:        q,
		rule:     rule,
		keywords: NewKeywordMatcher(lists),
		loc:      loc,
		log:      log.With(logger.String("component", "dashboard")),
		now:      time.Now,
	}, nil
}

func (v *Views) fail(view string, err error) string {
	v.log.Error("Failed to load dashboard view", logger.String("view", view), logger.Error(err))
	return "Impossible de charger " + view
}

// Overview loads KPI cards, theme data and weekday activity.
func (v *Views) Overview(ctx context.Context, days int) Overview {
	days = orDefault(days, DefaultDays)
	var (
		stats    models.Stats
		cats     []models.CategoryStat
		articles []models.Article
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = v.q.Stats(gctx, days)
		return err
	})
	g.Go(func() (err error) {
		cats, err = v.q.ClassificationStats(gctx, days)
		return err
	})
	g.Go(func() (err error) {
		articles, err = v.q.RecentArticles(gctx, days, overviewArticleLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return EmptyOverview(v.fail("les statistiques", err))
	}
	return BuildOverview(stats, cats, articles, v.loc)
}

// Ranking loads the influence ranking with movement against the previous
// window of the same length.
func (v *Views) Ranking(ctx context.Context, days int) Ranking {
	days = orDefault(days, DefaultDays)
	current, err := v.q.Ranking(ctx, days)
	if err != nil {
		return Ranking{Media: []RankedMedia{}, Comparison: []ComparisonRow{}, Notice: v.fail("le classement", err)}
	}

	var previous map[int]int
	if doubled, dErr := v.q.Ranking(ctx, days*2); dErr != nil {
		v.log.Warn("Ranking movement unavailable", logger.Int("days", days*2), logger.Error(dErr))
	} else {
		previous = PreviousEngagement(current, doubled)
	}

	rows := RankMedia(current, previous)
	return Ranking{Media: rows, Comparison: TopComparison(rows)}
}

// Compliance scores every media with the named rule, or the configured one
// when ruleName is empty.
func (v *Views) Compliance(ctx context.Context, days int, ruleName string) (Compliance, error) {
	rule := v.rule
	if ruleName != "" {
		r, err := RuleByName(ruleName)
		if err != nil {
			return Compliance{}, err
		}
		rule = r
	}
	window := orDefault(days, DefaultComplianceDays)
	audience, err := v.q.GlobalAudience(ctx, window)
	if err != nil {
		return EmptyCompliance(rule, v.fail("la conformité", err)), nil
	}
	return BuildCompliance(rule, audience, window), nil
}

// Thematic loads the category breakdown and its weekly pivot.
func (v *Views) Thematic(ctx context.Context, days, weeks int) Thematic {
	var (
		stats  []models.CategoryStat
		weekly []models.WeeklyCategoryStat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = v.q.ClassificationStats(gctx, orDefault(days, DefaultDays))
		return err
	})
	g.Go(func() (err error) {
		weekly, err = v.q.WeeklyClassificationStats(gctx, orDefault(weeks, DefaultWeeks))
		return err
	})
	if err := g.Wait(); err != nil {
		return EmptyThematic(v.fail("l'analyse thématique", err))
	}
	return BuildThematic(stats, weekly)
}

// Sensitive loads moderation alerts, falling back to keyword matching over
// recent articles when the moderation endpoint fails.
func (v *Views) Sensitive(ctx context.Context, limit int) Sensitive {
	now := v.now()
	flagged, err := v.q.FlaggedContent(ctx, "", orDefault(limit, DefaultFlaggedLimit))
	if err == nil {
		return BuildSensitive(flagged, now)
	}
	v.log.Warn("Moderation unavailable, using keyword detection", logger.Error(err))

	var (
		articles []models.Article
		medias   []models.Media
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		articles, err = v.q.RecentArticles(gctx, fallbackArticleDays, fallbackArticleLimit)
		return err
	})
	g.Go(func() (err error) {
		medias, err = v.q.Medias(gctx)
		return err
	})
	if err = g.Wait(); err != nil {
		return EmptySensitive(v.fail("les contenus sensibles", err))
	}
	return BuildKeywordSensitive(v.keywords, articles, medias, now)
}

// AlertDetail joins a flagged content item with its article, media and
// per-axis moderation verdicts.
func (v *Views) AlertDetail(ctx context.Context, contentType string, contentID int) (AlertDetail, error) {
	flagged, err := v.q.FlaggedContent(ctx, contentType, detailFlaggedLimit)
	if err != nil {
		return AlertDetail{}, fmt.Errorf("load flagged content: %w", err)
	}
	var (
		record models.FlaggedContent
		found  bool
	)
	for _, f := range flagged {
		if f.ContentType == contentType && f.ContentID == contentID {
			record, found = f, true
			break
		}
	}
	if !found {
		return AlertDetail{}, fmt.Errorf("%s #%d: %w", contentType, contentID, ErrAlertNotFound)
	}

	detail := AlertDetail{Alert: AlertFromFlagged(record, v.now()), Flagged: record}

	if contentType == models.ContentArticle {
		articles, aErr := v.q.RecentArticles(ctx, detailArticleDays, detailArticleLimit)
		if aErr != nil {
			return AlertDetail{}, fmt.Errorf("load articles: %w", aErr)
		}
		for i := range articles {
			if articles[i].ID == contentID {
				detail.Article = &articles[i]
				break
			}
		}
		if detail.Article != nil && detail.Article.MediaID > 0 {
			media, mErr := v.q.Media(ctx, detail.Article.MediaID)
			if mErr != nil {
				return AlertDetail{}, fmt.Errorf("load media %d: %w", detail.Article.MediaID, mErr)
			}
			detail.Media = &media
		}
	}

	moderation, err := v.q.ContentModeration(ctx, contentType, contentID)
	if err != nil {
		return AlertDetail{}, fmt.Errorf("load moderation verdicts: %w", err)
	}
	detail.Moderation = &moderation
	return detail, nil
}

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
