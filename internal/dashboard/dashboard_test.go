package dashboard_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/config"
	"github.com/jonesrussell/north-cloud/media-scan/internal/dashboard"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/queries"
	"github.com/jonesrussell/north-cloud/media-scan/internal/querycache"
	"github.com/jonesrussell/north-cloud/media-scan/internal/service"
	"github.com/jonesrussell/north-cloud/media-scan/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViews(t *testing.T) (*dashboard.Views, *testhelpers.Backend) {
	t.Helper()

	backend := testhelpers.NewBackend(t)
	backend.ServeDefaults(fixedNow)
	cache := querycache.New(querycache.NewMemoryStore(), querycache.Config{})
	t.Cleanup(cache.Wait)
	q := queries.New(cache, service.New(backend.Client(t)), testhelpers.NewTestLogger())

	v, err := dashboard.New(q, config.DashboardConfig{Timezone: "UTC", ComplianceRule: "decay"}, testhelpers.NewTestLogger())
	require.NoError(t, err)
	v.SetClock(func() time.Time { return fixedNow })
	return v, backend
}

func TestNew_RejectsUnknownRule(t *testing.T) {
	t.Parallel()

	_, err := dashboard.New(nil, config.DashboardConfig{ComplianceRule: "strict"}, nil)
	require.Error(t, err)
}

func TestViews_Overview(t *testing.T) {
	t.Parallel()

	v, _ := newViews(t)
	o := v.Overview(context.Background(), 0)

	assert.Empty(t, o.Notice)
	assert.Equal(t, "1,200", o.KPIs[0].Value)
	assert.Len(t, o.Themes, 3)
	require.Len(t, o.Weekly, 7)

	total := 0
	for _, d := range o.Weekly {
		total += d.Articles
	}
	assert.Equal(t, 2, total, "undated article skipped")
}

func TestViews_OverviewDegradesOnFailure(t *testing.T) {
	t.Parallel()

	v, backend := newViews(t)
	backend.Fail(http.MethodGet, "stats/", http.StatusInternalServerError)

	o := v.Overview(context.Background(), 30)
	assert.Equal(t, "Impossible de charger les statistiques", o.Notice)
	assert.Equal(t, "0", o.KPIs[0].Value)
	assert.Equal(t, "N/A", o.KPIs[3].Value)
	assert.Empty(t, o.Themes)
	assert.Len(t, o.Weekly, 7)
}

func TestViews_RankingMovement(t *testing.T) {
	t.Parallel()

	v, backend := newViews(t)
	backend.Handle(http.MethodGet, "ranking/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("days") == "60" {
			testhelpers.WriteJSON(w, http.StatusOK, []models.RankingEntry{
				{ID: 1, Nom: "Lefaso.net", EngagementTotal: 12000},
				{ID: 2, Nom: "Sidwaya", EngagementTotal: 5000},
				{ID: 3, Nom: "Burkina24", EngagementTotal: 100},
			})
			return
		}
		testhelpers.WriteJSON(w, http.StatusOK, testhelpers.SampleRanking())
	})

	r := v.Ranking(context.Background(), 30)
	require.Len(t, r.Media, 3)
	assert.Equal(t, "Lefaso.net", r.Media[0].Name)
	assert.Equal(t, dashboard.TrendUp, r.Media[0].Trend)
	assert.Equal(t, dashboard.TrendDown, r.Media[1].Trend)
	assert.Len(t, r.Comparison, 4)
}

func TestViews_RankingWithoutPreviousWindow(t *testing.T) {
	t.Parallel()

	v, backend := newViews(t)
	backend.Handle(http.MethodGet, "ranking/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("days") == "60" {
			testhelpers.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "window too large"})
			return
		}
		testhelpers.WriteJSON(w, http.StatusOK, testhelpers.SampleRanking())
	})

	r := v.Ranking(context.Background(), 30)
	assert.Empty(t, r.Notice)
	for _, m := range r.Media {
		assert.Equal(t, dashboard.TrendStable, m.Trend)
	}
}

func TestViews_Compliance(t *testing.T) {
	t.Parallel()

	v, _ := newViews(t)

	c, err := v.Compliance(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Equal(t, dashboard.RuleDecay, c.Rule)
	assert.Equal(t, 2, c.Summary.Total)

	c, err = v.Compliance(context.Background(), 90, dashboard.RuleActivity)
	require.NoError(t, err)
	assert.Equal(t, dashboard.RuleActivity, c.Rule)

	_, err = v.Compliance(context.Background(), 90, "bogus")
	require.Error(t, err)
}

func TestViews_ComplianceUsesRequestedWindow(t *testing.T) {
	t.Parallel()

	v, backend := newViews(t)
	backend.JSON(http.MethodGet, "audience/global/", http.StatusOK, []models.AudienceGlobal{{
		ID: 1, Nom: "Lefaso.net", TotalPublications: 40,
		Web: &models.AudienceWeb{ID: 1, Nom: "Lefaso.net", JoursAvecPublication: 7},
	}})

	for _, rule := range []string{dashboard.RuleDecay, dashboard.RuleActivity} {
		c, err := v.Compliance(context.Background(), 7, rule)
		require.NoError(t, err)
		require.Len(t, c.Rows, 1)

		row := c.Rows[0]
		assert.Equal(t, 40, row.PublicationsPerWeek, rule)
		assert.Equal(t, 7, row.RequiredDays, rule)
		assert.Equal(t, 100, row.Score, rule)
		assert.Equal(t, dashboard.StatusCompliant, row.Status, rule)
	}

	req := backend.LastRequest(http.MethodGet, "audience/global/")
	require.NotNil(t, req)
	assert.Equal(t, "7", req.URL.Query().Get("days"))
}

func TestViews_Thematic(t *testing.T) {
	t.Parallel()

	v, _ := newViews(t)
	th := v.Thematic(context.Background(), 30, 5)

	assert.Empty(t, th.Notice)
	assert.Len(t, th.Themes, 3)
	assert.Len(t, th.Weekly, 2)
}

func TestViews_SensitiveFallsBackToKeywords(t *testing.T) {
	t.Parallel()

	v, backend := newViews(t)
	backend.Fail(http.MethodGet, "moderation/flagged/", http.StatusServiceUnavailable)

	s := v.Sensitive(context.Background(), 0)
	assert.Empty(t, s.Notice)
	assert.Equal(t, dashboard.SourceKeywords, s.Source)
	require.Len(t, s.Alerts, 1)
	assert.Equal(t, "Sidwaya", s.Alerts[0].Media)
}

func TestViews_SensitiveDegradesWhenFallbackFails(t *testing.T) {
	t.Parallel()

	v, backend := newViews(t)
	backend.Fail(http.MethodGet, "moderation/flagged/", http.StatusServiceUnavailable)
	backend.Fail(http.MethodGet, "articles/", http.StatusServiceUnavailable)

	s := v.Sensitive(context.Background(), 0)
	assert.Equal(t, "Impossible de charger les contenus sensibles", s.Notice)
	assert.Empty(t, s.Alerts)
}

func TestViews_AlertDetail(t *testing.T) {
	t.Parallel()

	v, backend := newViews(t)
	backend.JSON(http.MethodGet, "medias/2/", http.StatusOK, testhelpers.SampleMedias()[1])
	backend.JSON(http.MethodGet, "moderation/content/", http.StatusOK, models.ContentModeration{
		ContentType:    models.ContentArticle,
		ContentID:      11,
		RiskScore:      8.5,
		ShouldFlag:     true,
		Misinformation: models.MisinformationVerdict{EstDesinformation: true, ScoreDesinformation: 8.5, Raison: "source inconnue"},
	})

	d, err := v.AlertDetail(context.Background(), models.ContentArticle, 11)
	require.NoError(t, err)

	assert.Equal(t, dashboard.AlertMisinformation, d.Alert.Type)
	require.NotNil(t, d.Article)
	assert.Equal(t, "Fake news sur le vaccin", d.Article.Titre)
	require.NotNil(t, d.Media)
	assert.Equal(t, "Sidwaya", d.Media.Nom)
	require.NotNil(t, d.Moderation)
	assert.True(t, d.Moderation.Misinformation.EstDesinformation)

	req := backend.LastRequest(http.MethodGet, "moderation/content/")
	require.NotNil(t, req)
	assert.Equal(t, "11", req.URL.Query().Get("id"))
}

func TestViews_AlertDetailNotFound(t *testing.T) {
	t.Parallel()

	v, _ := newViews(t)
	_, err := v.AlertDetail(context.Background(), models.ContentTweet, 999)
	require.ErrorIs(t, err, dashboard.ErrAlertNotFound)
}
