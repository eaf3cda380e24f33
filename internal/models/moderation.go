package models

import "encoding/json"

// Moderated content types.
const (
	ContentArticle  = "article"
	ContentFacebook = "facebook_post"
	ContentTweet    = "tweet"
)

// Primary issues assigned by the moderation analysis.
const (
	IssueToxicity       = "toxicity"
	IssueMisinformation = "misinformation"
	IssueSensitivity    = "sensitivity"
)

// FlaggedContent is a moderation verdict above the risk threshold.
type FlaggedContent struct {
	ID                    int             `json:"id"                               validate:"gt=0"`
	ContentType           string          `json:"content_type"                     validate:"required"`
	ContentID             int             `json:"content_id"                       validate:"gt=0"`
	RiskScore             float64         `json:"risk_score"                       validate:"gte=0,lte=10"`
	RiskLevel             string          `json:"risk_level"`
	IsToxic               bool            `json:"is_toxic"`
	IsMisinformation      bool            `json:"is_misinformation"`
	IsSensitive           bool            `json:"is_sensitive"`
	AnalyzedAt            *Timestamp      `json:"analyzed_at,omitempty"`
	PrimaryIssue          *string         `json:"primary_issue,omitempty"`
	ToxicityDetails       json.RawMessage `json:"toxicity_details,omitempty"`
	MisinformationDetails json.RawMessage `json:"misinformation_details,omitempty"`
	SensitivityDetails    json.RawMessage `json:"sensitivity_details,omitempty"`
}

type ModerationStats struct {
	TotalAnalyzed       int     `json:"total_analyzed"       validate:"gte=0"`
	TotalFlagged        int     `json:"total_flagged"        validate:"gte=0"`
	TotalToxic          int     `json:"total_toxic"          validate:"gte=0"`
	TotalMisinformation int     `json:"total_misinformation" validate:"gte=0"`
	TotalSensitive      int     `json:"total_sensitive"      validate:"gte=0"`
	AvgRiskScore        float64 `json:"avg_risk_score"`
}

type ToxicityVerdict struct {
	EstToxique    bool    `json:"est_toxique"`
	ScoreToxicite float64 `json:"score_toxicite"`
	Raison        string  `json:"raison"`
	Contexte      *string `json:"contexte,omitempty"`
}

type MisinformationVerdict struct {
	EstDesinformation   bool    `json:"est_desinformation"`
	ScoreDesinformation float64 `json:"score_desinformation"`
	Raison              string  `json:"raison"`
	SourcesCitees       *bool   `json:"sources_citees,omitempty"`
}

type SensitivityVerdict struct {
	EstSensible      bool    `json:"est_sensible"`
	ScoreSensibilite float64 `json:"score_sensibilite"`
	Raison           string  `json:"raison"`
	Traitement       *string `json:"traitement,omitempty"`
}

// ContentModeration is the full per-axis analysis of one content item.
type ContentModeration struct {
	ContentType    string                `json:"content_type"`
	ContentID      int                   `json:"content_id"`
	RiskScore      float64               `json:"risk_score"  validate:"gte=0,lte=10"`
	RiskLevel      string                `json:"risk_level"`
	ShouldFlag     bool                  `json:"should_flag"`
	Toxicity       ToxicityVerdict       `json:"toxicity"`
	Misinformation MisinformationVerdict `json:"misinformation"`
	Sensitivity    SensitivityVerdict    `json:"sensitivity"`
	AnalyzedAt     *Timestamp            `json:"analyzed_at,omitempty"`
}
