package models

type Article struct {
	ID              int        `json:"id"                         validate:"gt=0"`
	MediaID         int        `json:"media_id"                   validate:"gte=0"`
	Titre           string     `json:"titre"`
	Contenu         *string    `json:"contenu,omitempty"`
	Extrait         *string    `json:"extrait,omitempty"`
	URL             string     `json:"url"`
	Auteur          *string    `json:"auteur,omitempty"`
	DatePublication *Timestamp `json:"date_publication,omitempty"`
	ImageURL        *string    `json:"image_url,omitempty"`
	Categories      []string   `json:"categories,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	SourceType      string     `json:"source_type,omitempty"`
	Vues            int        `json:"vues"                       validate:"gte=0"`
	Commentaires    int        `json:"commentaires"               validate:"gte=0"`
	ScrapedAt       *Timestamp `json:"scraped_at,omitempty"`
}

// Text returns title and body (or excerpt) joined for keyword matching.
func (a Article) Text() string {
	body := ""
	switch {
	case a.Contenu != nil && *a.Contenu != "":
		body = *a.Contenu
	case a.Extrait != nil:
		body = *a.Extrait
	}
	return a.Titre + " " + body
}

// ArticleParams filters the article list.
type ArticleParams struct {
	Days      int    `form:"days"      json:"days,omitempty"      validate:"omitempty,gte=1,lte=365"`
	Limit     int    `form:"limit"     json:"limit,omitempty"     validate:"omitempty,gte=1,lte=1000"`
	MediaID   int    `form:"media_id"  json:"media_id,omitempty"  validate:"omitempty,gt=0"`
	Categorie string `form:"categorie" json:"categorie,omitempty"`
}
