package testhelpers

import (
	"net/http"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

func ptr[T any](v T) *T { return &v }

func SampleMedias() []models.Media {
	return []models.Media{
		{ID: 1, Nom: "Lefaso.net", URL: "https://lefaso.net", TypeSite: "wordpress", Actif: true},
		{ID: 2, Nom: "Sidwaya", URL: "https://www.sidwaya.info", TypeSite: "html", Actif: true},
		{ID: 3, Nom: "Burkina24", URL: "https://burkina24.com", TypeSite: "wordpress", Actif: false},
	}
}

func SampleStats() models.Stats {
	return models.Stats{
		TotalArticles:   1200,
		TotalMedias:     8,
		TotalCategories: 6,
		TopMedia:        &models.TopMedia{ID: 1, Nom: "Lefaso.net"},
	}
}

func SampleRanking() []models.RankingEntry {
	return []models.RankingEntry{
		{ID: 2, Nom: "Sidwaya", TotalArticles: 40, TotalPostsFacebook: 10, EngagementTotal: 2000, TotalLikesFB: 800, TotalCommentsFB: 100, TotalSharesFB: 50},
		{ID: 1, Nom: "Lefaso.net", TotalArticles: 100, TotalPostsFacebook: 50, TotalTweets: 50, EngagementTotal: 10000, TotalLikesFB: 5000, TotalCommentsFB: 700, TotalSharesFB: 300},
		{ID: 3, Nom: "Burkina24", TotalArticles: 5, EngagementTotal: 0},
	}
}

func SampleCategoryStats() []models.CategoryStat {
	return []models.CategoryStat{
		{Categorie: "Politique", Total: 50, ConfianceMoyenne: 0.9},
		{Categorie: "Economie", Total: 30, ConfianceMoyenne: 0.8},
		{Categorie: "Sport", Total: 20, ConfianceMoyenne: 0.85},
	}
}

// SampleArticles dates articles relative to now.
func SampleArticles(now time.Time) []models.Article {
	return []models.Article{
		{ID: 10, MediaID: 1, Titre: "Conseil des ministres", URL: "https://lefaso.net/a10", Vues: 120, Commentaires: 4, DatePublication: models.NewTimestamp(now.Add(-2 * time.Hour))},
		{ID: 11, MediaID: 2, Titre: "Fake news sur le vaccin", URL: "https://sidwaya.info/a11", Contenu: ptr("<p>Une <b>rumeur</b> circule</p>"), Vues: 80, Commentaires: 10, DatePublication: models.NewTimestamp(now.Add(-26 * time.Hour))},
		{ID: 12, MediaID: 1, Titre: "Sans date", URL: "https://lefaso.net/a12", Vues: 5},
	}
}

func SampleFlagged(now time.Time) []models.FlaggedContent {
	return []models.FlaggedContent{
		{ID: 1, ContentType: models.ContentArticle, ContentID: 11, RiskScore: 8.5, RiskLevel: "HIGH", IsMisinformation: true, PrimaryIssue: ptr(models.IssueMisinformation), AnalyzedAt: models.NewTimestamp(now.Add(-3 * time.Hour))},
		{ID: 2, ContentType: models.ContentFacebook, ContentID: 5, RiskScore: 3, RiskLevel: "LOW", IsSensitive: true, AnalyzedAt: models.NewTimestamp(now.Add(-30 * time.Hour))},
	}
}

func SampleGlobalAudience() []models.AudienceGlobal {
	return []models.AudienceGlobal{
		{ID: 1, Nom: "Lefaso.net", TotalPublications: 600, TotalEngagement: 10000, Web: &models.AudienceWeb{ID: 1, Nom: "Lefaso.net", JoursAvecPublication: 85, JoursDepuisDernierePub: 0}},
		{ID: 3, Nom: "Burkina24", TotalPublications: 10, Web: &models.AudienceWeb{ID: 3, Nom: "Burkina24", JoursAvecPublication: 2, JoursDepuisDernierePub: 95}},
	}
}

// ServeDefaults registers every read endpoint with the sample fixtures.
func (b *Backend) ServeDefaults(now time.Time) {
	b.JSON(http.MethodGet, "medias/", http.StatusOK, SampleMedias())
	b.JSON(http.MethodGet, "stats/", http.StatusOK, SampleStats())
	b.JSON(http.MethodGet, "ranking/", http.StatusOK, SampleRanking())
	b.JSON(http.MethodGet, "classifications/stats/", http.StatusOK, SampleCategoryStats())
	b.JSON(http.MethodGet, "classifications/weekly/", http.StatusOK, []models.WeeklyCategoryStat{
		{Semaine: "2024-03-04", Categorie: "Politique", Total: 10},
		{Semaine: "2024-03-11", Categorie: "Politique", Total: 15},
		{Semaine: "2024-03-11", Categorie: "Sport", Total: 4},
	})
	b.JSON(http.MethodGet, "articles/", http.StatusOK, SampleArticles(now))
	b.JSON(http.MethodGet, "audience/global/", http.StatusOK, SampleGlobalAudience())
	b.JSON(http.MethodGet, "moderation/flagged/", http.StatusOK, SampleFlagged(now))
	b.JSON(http.MethodGet, "moderation/stats/", http.StatusOK, models.ModerationStats{TotalAnalyzed: 100, TotalFlagged: 2, TotalMisinformation: 1, TotalSensitive: 1, AvgRiskScore: 5.75})
	b.JSON(http.MethodGet, "scraping/history/", http.StatusOK, models.ScrapingHistory{Tasks: []models.ScrapingHistoryTask{{ID: "t1", Status: "completed", TotalArticles: 12}}})
	b.JSON(http.MethodGet, "scraping/schedule/", http.StatusOK, models.ScrapingSchedule{Enabled: true, Frequency: models.FrequencyDaily})
	b.JSON(http.MethodGet, "health/", http.StatusOK, models.Health{Status: "healthy"})
}
