package models

// Audience channels accepted by the audience endpoints.
const (
	ChannelWeb      = "web"
	ChannelFacebook = "facebook"
	ChannelTwitter  = "twitter"
	ChannelGlobal   = "global"
	ChannelInactive = "inactive"
)

type AudienceWeb struct {
	ID                     int        `json:"id"                        validate:"gt=0"`
	Nom                    string     `json:"nom"                       validate:"required"`
	URL                    string     `json:"url"`
	TotalArticles          int        `json:"total_articles"            validate:"gte=0"`
	JoursAvecPublication   int        `json:"jours_avec_publication"    validate:"gte=0"`
	ArticlesParJourMoyen   float64    `json:"articles_par_jour_moyen"`
	DernierePublication    *Timestamp `json:"derniere_publication,omitempty"`
	JoursDepuisDernierePub int        `json:"jours_depuis_derniere_pub" validate:"gte=0"`
	Statut                 string     `json:"statut"`
}

type AudienceFacebook struct {
	ID                     int        `json:"id"                        validate:"gt=0"`
	Nom                    string     `json:"nom"                       validate:"required"`
	URL                    string     `json:"url"`
	FacebookPage           string     `json:"facebook_page"`
	TotalPosts             int        `json:"total_posts"               validate:"gte=0"`
	TotalLikes             int        `json:"total_likes"`
	TotalComments          int        `json:"total_comments"`
	TotalShares            int        `json:"total_shares"`
	EngagementTotal        int        `json:"engagement_total"`
	EngagementMoyen        float64    `json:"engagement_moyen"`
	JoursAvecPublication   int        `json:"jours_avec_publication"    validate:"gte=0"`
	PostsParJourMoyen      float64    `json:"posts_par_jour_moyen"`
	DernierePublication    *Timestamp `json:"derniere_publication,omitempty"`
	JoursDepuisDernierePub int        `json:"jours_depuis_derniere_pub" validate:"gte=0"`
	Statut                 string     `json:"statut"`
}

type AudienceTwitter struct {
	ID                     int        `json:"id"                        validate:"gt=0"`
	Nom                    string     `json:"nom"                       validate:"required"`
	URL                    string     `json:"url"`
	TwitterAccount         string     `json:"twitter_account"`
	TotalTweets            int        `json:"total_tweets"              validate:"gte=0"`
	TotalRetweets          int        `json:"total_retweets"`
	TotalReplies           int        `json:"total_replies"`
	TotalLikes             int        `json:"total_likes"`
	TotalQuotes            int        `json:"total_quotes"`
	TotalImpressions       int        `json:"total_impressions"`
	EngagementTotal        int        `json:"engagement_total"`
	EngagementMoyen        float64    `json:"engagement_moyen"`
	JoursAvecPublication   int        `json:"jours_avec_publication"    validate:"gte=0"`
	TweetsParJourMoyen     float64    `json:"tweets_par_jour_moyen"`
	DernierePublication    *Timestamp `json:"derniere_publication,omitempty"`
	JoursDepuisDernierePub int        `json:"jours_depuis_derniere_pub" validate:"gte=0"`
	Statut                 string     `json:"statut"`
}

// AudienceGlobal merges every channel for one media.
type AudienceGlobal struct {
	ID                int               `json:"id"                 validate:"gt=0"`
	Nom               string            `json:"nom"                validate:"required"`
	URL               string            `json:"url"`
	TotalPublications int               `json:"total_publications" validate:"gte=0"`
	TotalEngagement   int               `json:"total_engagement"   validate:"gte=0"`
	ScoreInfluence    float64           `json:"score_influence"`
	Web               *AudienceWeb      `json:"web,omitempty"`
	Facebook          *AudienceFacebook `json:"facebook,omitempty"`
	Twitter           *AudienceTwitter  `json:"twitter,omitempty"`
}
