package models

type TopMedia struct {
	ID  int    `json:"id"`
	Nom string `json:"nom"`
}

// Stats is the backend overview for a day window.
type Stats struct {
	TotalArticles   int       `json:"total_articles"              validate:"gte=0"`
	TotalMedias     int       `json:"total_medias"                validate:"gte=0"`
	TotalCategories int       `json:"total_categories"            validate:"gte=0"`
	TopMedia        *TopMedia `json:"top_media,omitempty"`
	TotalFBPosts    *int      `json:"total_facebook_posts,omitempty"`
	TotalTweets     *int      `json:"total_tweets,omitempty"`
	Days            int       `json:"days,omitempty"`
}

// TopMediaName returns the top media name or "N/A".
func (s Stats) TopMediaName() string {
	if s.TopMedia == nil || s.TopMedia.Nom == "" {
		return NotAvailable
	}
	return s.TopMedia.Nom
}

// NotAvailable labels missing values in views and reports.
const NotAvailable = "N/A"

type Health struct {
	Status    string     `json:"status"              validate:"required"`
	Database  *string    `json:"database,omitempty"`
	Timestamp *Timestamp `json:"timestamp,omitempty"`
}
