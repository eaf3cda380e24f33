package models

type FacebookPost struct {
	ID              int        `json:"id"                         validate:"gt=0"`
	MediaID         int        `json:"media_id"`
	PostID          string     `json:"post_id"`
	Message         *string    `json:"message,omitempty"`
	URL             *string    `json:"url,omitempty"`
	ImageURL        *string    `json:"image_url,omitempty"`
	DatePublication *Timestamp `json:"date_publication,omitempty"`
	Likes           int        `json:"likes"`
	Comments        int        `json:"comments"`
	Shares          int        `json:"shares"`
	EngagementTotal int        `json:"engagement_total"`
	ScrapedAt       *Timestamp `json:"scraped_at,omitempty"`
}

type Tweet struct {
	ID              int        `json:"id"                         validate:"gt=0"`
	MediaID         int        `json:"media_id"`
	TweetID         string     `json:"tweet_id"`
	Text            *string    `json:"text,omitempty"`
	URL             *string    `json:"url,omitempty"`
	ImageURL        *string    `json:"image_url,omitempty"`
	DatePublication *Timestamp `json:"date_publication,omitempty"`
	Retweets        int        `json:"retweets"`
	Replies         int        `json:"replies"`
	Likes           int        `json:"likes"`
	Quotes          int        `json:"quotes"`
	Impressions     int        `json:"impressions"`
	EngagementTotal int        `json:"engagement_total"`
	ScrapedAt       *Timestamp `json:"scraped_at,omitempty"`
}

// SocialParams filters post and tweet lists.
type SocialParams struct {
	MediaID int `form:"media_id" json:"media_id,omitempty" validate:"omitempty,gt=0"`
	Days    int `form:"days"     json:"days,omitempty"     validate:"omitempty,gte=1,lte=365"`
	Limit   int `form:"limit"    json:"limit,omitempty"    validate:"omitempty,gte=1,lte=1000"`
}
