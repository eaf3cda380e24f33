package queries

import "time"

// Staleness windows per resource.
const (
	MediaStaleness          = 10 * time.Minute
	StatsStaleness          = 5 * time.Minute
	RankingStaleness        = 5 * time.Minute
	ClassificationStaleness = 5 * time.Minute
	AudienceStaleness       = 5 * time.Minute
	ArticleStaleness        = 3 * time.Minute
	InactiveStaleness       = 10 * time.Minute
	HealthStaleness         = time.Minute
	ModerationStaleness     = 2 * time.Minute
	ScheduleStaleness       = time.Minute
	HistoryStaleness        = time.Minute

	// HealthRefreshInterval keeps the backend health entry warm.
	HealthRefreshInterval = 2 * time.Minute
)

// Key roots.
const (
	keyMedia           = "media"
	keyArticles        = "articles"
	keyAudience        = "audience"
	keyClassifications = "classifications"
	keyRanking         = "ranking"
	keyStats           = "stats"
	keyHealth          = "health"
	keyModeration      = "moderation"
	keyScraping        = "scraping"
	keySocial          = "social"
)
