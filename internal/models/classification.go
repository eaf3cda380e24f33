package models

type Classification struct {
	ID            int      `json:"id"                      validate:"gt=0"`
	ArticleID     int      `json:"article_id"              validate:"gt=0"`
	Categorie     string   `json:"categorie"               validate:"required"`
	Confiance     float64  `json:"confiance"               validate:"gte=0"`
	MotsCles      []string `json:"mots_cles,omitempty"`
	Justification *string  `json:"justification,omitempty"`
	Methode       string   `json:"methode,omitempty"`
}

// CategoryStat aggregates classified articles per category.
type CategoryStat struct {
	Categorie        string  `json:"categorie"         validate:"required"`
	Total            int     `json:"total"             validate:"gte=0"`
	ConfianceMoyenne float64 `json:"confiance_moyenne"`
}

// WeeklyCategoryStat is one category total for one week. Semaine is the
// week's start date as emitted by the backend and sorts chronologically.
type WeeklyCategoryStat struct {
	Semaine   string `json:"semaine"   validate:"required"`
	Categorie string `json:"categorie" validate:"required"`
	Total     int    `json:"total"     validate:"gte=0"`
}

type ClassificationParams struct {
	Categorie string `form:"categorie" json:"categorie,omitempty"`
	Days      int    `form:"days"      json:"days,omitempty"`
	Limit     int    `form:"limit"     json:"limit,omitempty"`
}
