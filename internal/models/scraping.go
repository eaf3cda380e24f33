package models

// Schedule frequencies understood by the backend.
const (
	FrequencyHourly = "hourly"
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

type ScrapingSchedule struct {
	Enabled   bool       `json:"enabled"`
	Frequency string     `json:"frequency"          validate:"required,oneof=hourly daily weekly"`
	NextRun   *Timestamp `json:"next_run,omitempty"`
}

// ScrapingRequest asks the backend to collect content.
type ScrapingRequest struct {
	URL          string `json:"url,omitempty"  validate:"omitempty,url"`
	All          bool   `json:"all"`
	Days         int    `json:"days"           validate:"gte=1,lte=365"`
	FBPosts      int    `json:"fb_posts"       validate:"gte=0"`
	Tweets       int    `json:"tweets"         validate:"gte=0"`
	SkipFacebook bool   `json:"skip_facebook"`
	SkipTwitter  bool   `json:"skip_twitter"`
}

// Backend defaults for a scraping request.
const (
	DefaultScrapeDays   = 30
	DefaultScrapePosts  = 5
	DefaultScrapeTweets = 5
)

// NewScrapingRequest returns a request with the backend defaults.
func NewScrapingRequest() ScrapingRequest {
	return ScrapingRequest{
		Days:    DefaultScrapeDays,
		FBPosts: DefaultScrapePosts,
		Tweets:  DefaultScrapeTweets,
	}
}

type ScrapingResult struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	TotalArticles *int     `json:"total_articles,omitempty"`
	TotalFBPosts  *int     `json:"total_fb_posts,omitempty"`
	TotalTweets   *int     `json:"total_tweets,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

// Collected sums every counter the backend reported.
func (r ScrapingResult) Collected() int {
	total := 0
	for _, n := range []*int{r.TotalArticles, r.TotalFBPosts, r.TotalTweets} {
		if n != nil {
			total += *n
		}
	}
	return total
}

// ScrapingHistoryTask is one backend scraping run.
type ScrapingHistoryTask struct {
	ID            string     `json:"id"                    validate:"required"`
	Status        string     `json:"status"`
	StartedAt     *Timestamp `json:"started_at,omitempty"`
	FinishedAt    *Timestamp `json:"finished_at,omitempty"`
	TotalArticles int        `json:"total_articles"        validate:"gte=0"`
	TotalFBPosts  int        `json:"total_fb_posts"        validate:"gte=0"`
	TotalTweets   int        `json:"total_tweets"          validate:"gte=0"`
	Errors        []string   `json:"errors,omitempty"`
}

type ScrapingHistory struct {
	Tasks []ScrapingHistoryTask `json:"tasks" validate:"dive"`
}
