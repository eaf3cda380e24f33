package models

// RankingEntry holds per-media totals over a day window.
type RankingEntry struct {
	ID                 int     `json:"id"                  validate:"gt=0"`
	Nom                string  `json:"nom"                 validate:"required"`
	URL                string  `json:"url"`
	TotalArticles      int     `json:"total_articles"      validate:"gte=0"`
	TotalPostsFacebook int     `json:"total_posts_facebook" validate:"gte=0"`
	TotalTweets        int     `json:"total_tweets"        validate:"gte=0"`
	TotalLikesFB       int     `json:"total_likes_fb"`
	TotalCommentsFB    int     `json:"total_comments_fb"`
	TotalSharesFB      int     `json:"total_shares_fb"`
	EngagementTotalFB  int     `json:"engagement_total_fb"`
	TotalRetweets      int     `json:"total_retweets"`
	TotalReplies       int     `json:"total_replies"`
	TotalLikesTW       int     `json:"total_likes_tw"`
	TotalQuotes        int     `json:"total_quotes"`
	TotalImpressions   int     `json:"total_impressions"`
	EngagementTotalTW  int     `json:"engagement_total_tw"`
	EngagementTotal    int     `json:"engagement_total"    validate:"gte=0"`
	EngagementMoyen    float64 `json:"engagement_moyen"`

	// Aggregated cross-channel counters, absent on older backends.
	TotalLikes    *int `json:"total_likes,omitempty"`
	TotalComments *int `json:"total_comments,omitempty"`
	TotalShares   *int `json:"total_shares,omitempty"`
}

// Publications counts articles, Facebook posts and tweets together.
func (r RankingEntry) Publications() int {
	return r.TotalArticles + r.TotalPostsFacebook + r.TotalTweets
}

// Likes falls back to Facebook plus Twitter likes when the aggregate is absent.
func (r RankingEntry) Likes() int {
	if r.TotalLikes != nil {
		return *r.TotalLikes
	}
	return r.TotalLikesFB + r.TotalLikesTW
}

func (r RankingEntry) Comments() int {
	if r.TotalComments != nil {
		return *r.TotalComments
	}
	return r.TotalCommentsFB + r.TotalReplies
}

func (r RankingEntry) Shares() int {
	if r.TotalShares != nil {
		return *r.TotalShares
	}
	return r.TotalSharesFB + r.TotalRetweets
}
