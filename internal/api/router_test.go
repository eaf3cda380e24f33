package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/media-scan/internal/api"
	"github.com/jonesrussell/north-cloud/media-scan/internal/auth"
	"github.com/jonesrussell/north-cloud/media-scan/internal/config"
	"github.com/jonesrussell/north-cloud/media-scan/internal/dashboard"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/queries"
	"github.com/jonesrussell/north-cloud/media-scan/internal/querycache"
	"github.com/jonesrussell/north-cloud/media-scan/internal/report"
	"github.com/jonesrussell/north-cloud/media-scan/internal/scraping"
	"github.com/jonesrussell/north-cloud/media-scan/internal/service"
	"github.com/jonesrussell/north-cloud/media-scan/internal/telemetry"
	"github.com/jonesrussell/north-cloud/media-scan/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var fixedNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	router  *gin.Engine
	backend *testhelpers.Backend
	tracker *scraping.Tracker
}

func newTestEnv(t *testing.T, mutate func(*api.Deps)) *testEnv {
	t.Helper()

	backend := testhelpers.NewBackend(t)
	backend.ServeDefaults(fixedNow)

	log := testhelpers.NewTestLogger()
	cache := querycache.New(querycache.NewMemoryStore(), querycache.Config{})
	t.Cleanup(cache.Wait)

	svc := service.New(backend.Client(t))
	q := queries.New(cache, svc, log)
	views, err := dashboard.New(q, config.DashboardConfig{Timezone: "UTC", ComplianceRule: "decay"}, log)
	require.NoError(t, err)

	provider := telemetry.NewProvider()
	tracker := scraping.NewTracker(scraping.NewMemoryStore(0), q,
		scraping.WithLogger(log),
		scraping.WithMetrics(provider.Metrics),
	)
	t.Cleanup(tracker.Wait)

	deps := api.Deps{
		Queries:        q,
		Views:          views,
		Tracker:        tracker,
		Reports:        report.NewGenerator(svc, report.WithLogger(log), report.WithMetrics(provider.Metrics)),
		Telemetry:      provider,
		Logger:         log,
		ServiceName:    "media-scan",
		ServiceVersion: "test",
	}
	if mutate != nil {
		mutate(&deps)
	}

	router := gin.New()
	api.Routes(deps)(router)
	return &testEnv{router: router, backend: backend, tracker: tracker}
}

func (e *testEnv) do(t *testing.T, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/backend/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[models.Health](t, w).Status)
}

func TestDashboardOverview(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/dashboard/overview?days=30", "")
	require.Equal(t, http.StatusOK, w.Code)
	o := decode[dashboard.Overview](t, w)
	assert.Empty(t, o.Notice)
	assert.NotEmpty(t, o.KPIs)
}

func TestDashboard_RejectsBadParams(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	for _, path := range []string{
		"/api/v1/dashboard/overview?days=abc",
		"/api/v1/dashboard/ranking?days=0",
		"/api/v1/dashboard/thematic?weeks=100",
		"/api/v1/dashboard/compliance?rule=strict",
		"/api/v1/dashboard/sensitive/video/1",
		"/api/v1/dashboard/sensitive/article/x",
	} {
		w := env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestDashboardCompliance_RuleOverride(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/dashboard/compliance?rule=activity", "")
	require.Equal(t, http.StatusOK, w.Code)
	c := decode[dashboard.Compliance](t, w)
	assert.Equal(t, dashboard.RuleActivity, c.Rule)
	assert.Len(t, c.Rows, 2)
}

func TestDashboardAlertDetail_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/dashboard/sensitive/tweet/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMediaCreate_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/v1/medias", `{"nom":"A","url":"not a url"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[errorBody](t, w)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(body.Details, &fields))
	assert.Equal(t, "Le nom doit contenir au moins 2 caractères", fields["nom"])
	assert.Equal(t, "URL invalide", fields["url"])
	assert.Zero(t, env.backend.Calls(http.MethodPost, "medias/"), "invalid form never reaches the backend")
}

func TestMediaCreate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	sent := make(chan models.MediaInput, 1)
	env.backend.Handle(http.MethodPost, "medias/", func(w http.ResponseWriter, r *http.Request) {
		var in models.MediaInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		sent <- in
		testhelpers.WriteJSON(w, http.StatusCreated, models.Media{ID: 9, Nom: in.Nom, URL: in.URL, Actif: true})
	})

	w := env.do(t, http.MethodPost, "/api/v1/medias", `{"nom":"Sidwaya","url":"https://sidwaya.info"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 9, decode[models.Media](t, w).ID)

	in := <-sent
	assert.Equal(t, models.DefaultSiteType, in.TypeSite)
	require.NotNil(t, in.Actif)
	assert.True(t, *in.Actif)
}

func TestMediaGet_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/medias/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/medias/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaList(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/medias", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Count int `json:"count"`
	}](t, w)
	assert.Equal(t, len(testhelpers.SampleMedias()), body.Count)
}

func TestBackendFailure_Is502(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.backend.Fail(http.MethodGet, "moderation/stats/", http.StatusBadRequest)

	w := env.do(t, http.MethodGet, "/api/v1/moderation/stats", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Failed to load moderation statistics", decode[errorBody](t, w).Error)
}

func TestAudience(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/audience/global?days=90", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "90", env.backend.LastRequest(http.MethodGet, "audience/global/").URL.Query().Get("days"))

	w = env.do(t, http.MethodGet, "/api/v1/audience/radio", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArticles_BindsFilters(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/articles?days=7&limit=20&categorie=Sport", "")
	require.Equal(t, http.StatusOK, w.Code)
	query := env.backend.LastRequest(http.MethodGet, "articles/").URL.Query()
	assert.Equal(t, "Sport", query.Get("categorie"))

	w = env.do(t, http.MethodGet, "/api/v1/articles?limit=5000", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMutatingRoutes_RequireToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, func(d *api.Deps) { d.JWTSecret = testSecret })
	env.backend.JSON(http.MethodPost, "scraping/trigger/", http.StatusOK, models.ScrapingResult{Status: "success"})

	w := env.do(t, http.MethodPost, "/api/v1/scraping/launch", `{"type":"rss"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/medias/1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := auth.IssueToken(testSecret, "operator", time.Minute)
	require.NoError(t, err)
	w = env.do(t, http.MethodPost, "/api/v1/scraping/launch", `{"type":"rss"}`, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusAccepted, w.Code)

	// reads stay public
	w = env.do(t, http.MethodGet, "/api/v1/scraping/tasks", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScrapingLaunch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	n := 4
	env.backend.JSON(http.MethodPost, "scraping/trigger/", http.StatusOK, models.ScrapingResult{Status: "success", TotalArticles: &n})

	w := env.do(t, http.MethodPost, "/api/v1/scraping/launch", `{"type":"html","days":3}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	task := decode[scraping.Task](t, w)
	assert.Equal(t, scraping.StatusRunning, task.Status)
	assert.Equal(t, 3, task.Days)

	env.tracker.Wait()

	w = env.do(t, http.MethodGet, "/api/v1/scraping/tasks/"+task.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	done := decode[scraping.Task](t, w)
	assert.Equal(t, scraping.StatusCompleted, done.Status)
	assert.Equal(t, 4, done.ItemsCollected)

	w = env.do(t, http.MethodGet, "/api/v1/scraping/tasks/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScrapingLaunch_UnknownType(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/v1/scraping/launch", `{"type":"tiktok"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/scraping/launch", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScrapingSchedule(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/scraping/schedule", "")
	require.Equal(t, http.StatusOK, w.Code)
	sched := decode[models.ScrapingSchedule](t, w)
	assert.True(t, sched.Enabled)
	require.NotNil(t, sched.NextRun, "next run computed from frequency")

	w = env.do(t, http.MethodPut, "/api/v1/scraping/schedule", `{"enabled":true,"frequency":"monthly"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.backend.JSON(http.MethodPatch, "scraping/schedule/", http.StatusOK, models.ScrapingSchedule{Enabled: false, Frequency: models.FrequencyDaily})
	w = env.do(t, http.MethodPost, "/api/v1/scraping/schedule/toggle", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.ScrapingSchedule](t, w).Enabled)

	w = env.do(t, http.MethodPost, "/api/v1/scraping/schedule/toggle", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScrapingHistory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/scraping/history?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[models.ScrapingHistory](t, w).Tasks, 1)
}

func TestReportDownload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/reports/weekly.pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "rapport_medias_weekly_")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = env.do(t, http.MethodGet, "/api/v1/reports/daily.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.FormatExcel.ContentType(), w.Header().Get("Content-Type"))
}

func TestReportDownload_BadName(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	for _, path := range []string{
		"/api/v1/reports/monthly.pdf",
		"/api/v1/reports/weekly.docx",
		"/api/v1/reports/weekly",
	} {
		w := env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestReportDownload_RateLimited(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, func(d *api.Deps) { d.ReportsPerMinute = 1 })

	w := env.do(t, http.MethodGet, "/api/v1/reports/daily.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/reports/daily.xlsx", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestMediaArticles(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/medias/1/articles?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	req := env.backend.LastRequest(http.MethodGet, "articles/")
	require.NotNil(t, req)
	assert.Equal(t, "1", req.URL.Query().Get("media_id"))
	assert.Equal(t, "5", req.URL.Query().Get("limit"))

	w = env.do(t, http.MethodGet, "/api/v1/medias/1/articles?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassifications(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.backend.JSON(http.MethodGet, "classifications/", http.StatusOK, []models.Classification{
		{ID: 1, ArticleID: 10, Categorie: "Sport", Confiance: 0.9},
	})

	w := env.do(t, http.MethodGet, "/api/v1/classifications?categorie=Sport", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Categorie string `json:"categorie"`
		Count     int    `json:"count"`
	}](t, w)
	assert.Equal(t, "Sport", body.Categorie)
	assert.Equal(t, 1, body.Count)

	w = env.do(t, http.MethodGet, "/api/v1/classifications", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSocialPosts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.backend.JSON(http.MethodGet, "facebook/posts/", http.StatusOK, []models.FacebookPost{{ID: 1, MediaID: 1, PostID: "p1"}})
	env.backend.JSON(http.MethodGet, "twitter/tweets/", http.StatusOK, []models.Tweet{{ID: 1, MediaID: 1, TweetID: "t1"}, {ID: 2, MediaID: 1, TweetID: "t2"}})

	w := env.do(t, http.MethodGet, "/api/v1/social/facebook?media_id=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	w = env.do(t, http.MethodGet, "/api/v1/social/twitter?days=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	w = env.do(t, http.MethodGet, "/api/v1/social/instagram", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/social/twitter?days=400", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScrapeMediaAndAll(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	n := 7
	sent := make(chan models.ScrapingRequest, 2)
	env.backend.Handle(http.MethodPost, "scraping/trigger/", func(w http.ResponseWriter, r *http.Request) {
		var req models.ScrapingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		sent <- req
		testhelpers.WriteJSON(w, http.StatusOK, models.ScrapingResult{Status: "success", TotalArticles: &n})
	})

	w := env.do(t, http.MethodPost, "/api/v1/scraping/media", `{"url":"https://sidwaya.info","days":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, decode[models.ScrapingResult](t, w).Collected())
	req := <-sent
	assert.Equal(t, "https://sidwaya.info", req.URL)
	assert.Equal(t, 2, req.Days)

	w = env.do(t, http.MethodPost, "/api/v1/scraping/all", `{"days":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	req = <-sent
	assert.True(t, req.All)

	w = env.do(t, http.MethodPost, "/api/v1/scraping/media", `{"days":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
