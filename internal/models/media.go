package models

// Media is a monitored outlet.
type Media struct {
	ID               int        `json:"id"                          validate:"gt=0"`
	Nom              string     `json:"nom"                         validate:"required"`
	URL              string     `json:"url"`
	TypeSite         string     `json:"type_site,omitempty"`
	FacebookPage     *string    `json:"facebook_page,omitempty"`
	TwitterAccount   *string    `json:"twitter_account,omitempty"`
	Actif            bool       `json:"actif"`
	DerniereCollecte *Timestamp `json:"derniere_collecte,omitempty"`
	CreatedAt        *Timestamp `json:"created_at,omitempty"`
}

// DefaultSiteType is sent when the operator leaves the site type empty.
const DefaultSiteType = "unknown"

// MediaInput is the operator form for creating or editing a media.
type MediaInput struct {
	Nom            string  `json:"nom"                       validate:"required,min=2,max=100"`
	URL            string  `json:"url"                       validate:"required,url"`
	TypeSite       string  `json:"type_site,omitempty"`
	FacebookPage   *string `json:"facebook_page,omitempty"   validate:"omitempty,max=100"`
	TwitterAccount *string `json:"twitter_account,omitempty" validate:"omitempty,max=100"`
	Actif          *bool   `json:"actif,omitempty"`
}

// Normalize applies form defaults: unknown site type, empty handles dropped,
// and active on creation.
func (in *MediaInput) Normalize(creating bool) {
	if in.TypeSite == "" {
		in.TypeSite = DefaultSiteType
	}
	if in.FacebookPage != nil && *in.FacebookPage == "" {
		in.FacebookPage = nil
	}
	if in.TwitterAccount != nil && *in.TwitterAccount == "" {
		in.TwitterAccount = nil
	}
	if creating && in.Actif == nil {
		active := true
		in.Actif = &active
	}
}
