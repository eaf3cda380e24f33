package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// Severity levels.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Alert sources.
const (
	SourceModeration = "moderation"
	SourceKeywords   = "keywords"
)

const (
	recentAlerts     = 10
	highRiskScore    = 8
	lowRiskScore     = 5
	reviewStatus     = "En cours d'examen"
	undatedWeekLabel = "Sans date"
)

// Alert is one sensitive-content entry.
type Alert struct {
	ID          int     `json:"id"`
	ContentType string  `json:"content_type"`
	ContentID   int     `json:"content_id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Media       string  `json:"media"`
	Date        string  `json:"date"`
	Severity    string  `json:"severity"`
	Status      string  `json:"status"`
	RiskScore   float64 `json:"risk_score"`
	RiskLevel   string  `json:"risk_level,omitempty"`

	at time.Time
}

// AlertTypeCount is the number of alerts of one type.
type AlertTypeCount struct {
	Type     string `json:"type"`
	Count    int    `json:"count"`
	Severity string `json:"severity"`
}

// WeekAlerts counts alerts per type for one ISO week.
type WeekAlerts struct {
	Semaine        string `json:"semaine"`
	Haine          int    `json:"haine"`
	Desinformation int    `json:"desinformation"`
	Sensible       int    `json:"sensible"`
}

type Sensitive struct {
	Source string           `json:"source"`
	Total  int              `json:"total"`
	Alerts []Alert          `json:"alerts"`
	Counts []AlertTypeCount `json:"counts"`
	Weekly []WeekAlerts     `json:"weekly"`
	Notice string           `json:"notice,omitempty"`
}

// AlertDetail joins a flagged record with its article, media and verdicts.
type AlertDetail struct {
	Alert      Alert                     `json:"alert"`
	Flagged    models.FlaggedContent     `json:"flagged"`
	Article    *models.Article           `json:"article,omitempty"`
	Media      *models.Media             `json:"media,omitempty"`
	Moderation *models.ContentModeration `json:"moderation,omitempty"`
}

// AlertType maps a primary issue to the displayed alert type.
func AlertType(primaryIssue *string) string {
	if primaryIssue == nil {
		return AlertSensitive
	}
	switch *primaryIssue {
	case models.IssueToxicity:
		return AlertHate
	case models.IssueMisinformation:
		return AlertMisinformation
	default:
		return AlertSensitive
	}
}

// Severity buckets a 0..10 risk score.
func Severity(riskScore float64) string {
	switch {
	case riskScore >= highRiskScore:
		return SeverityHigh
	case riskScore < lowRiskScore:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// ChannelLabel names the channel a content type was published on.
func ChannelLabel(contentType string) string {
	switch contentType {
	case models.ContentArticle:
		return "Article"
	case models.ContentFacebook:
		return "Facebook"
	default:
		return "Twitter"
	}
}

// AlertFromFlagged renders one moderation record.
func AlertFromFlagged(f models.FlaggedContent, now time.Time) Alert {
	a := Alert{
		ID:          f.ID,
		ContentType: f.ContentType,
		ContentID:   f.ContentID,
		Type:        AlertType(f.PrimaryIssue),
		Title:       f.ContentType + " #" + strconv.Itoa(f.ContentID),
		Media:       ChannelLabel(f.ContentType),
		Severity:    Severity(f.RiskScore),
		Status:      reviewStatus,
		RiskScore:   f.RiskScore,
		RiskLevel:   f.RiskLevel,
	}
	if f.AnalyzedAt.Valid() {
		a.at = f.AnalyzedAt.Time
		a.Date = RelativeTimeLabel(a.at, now)
	}
	return a
}

// BuildSensitive renders moderation records.
func BuildSensitive(flagged []models.FlaggedContent, now time.Time) Sensitive {
	alerts := make([]Alert, len(flagged))
	for i, f := range flagged {
		alerts[i] = AlertFromFlagged(f, now)
	}
	return summarize(SourceModeration, alerts)
}

// typeSeverity is the severity shown for the per-type totals and for
// keyword alerts, which carry no risk score.
var typeSeverity = map[string]string{
	AlertHate:           SeverityHigh,
	AlertMisinformation: SeverityHigh,
	AlertSensitive:      SeverityMedium,
}

// BuildKeywordSensitive classifies articles with the keyword matcher. Media
// names are resolved from medias; unknown media fall back to the channel.
func BuildKeywordSensitive(m *KeywordMatcher, articles []models.Article, medias []models.Media, now time.Time) Sensitive {
	names := make(map[int]string, len(medias))
	for _, md := range medias {
		names[md.ID] = md.Nom
	}
	alerts := make([]Alert, 0)
	for _, art := range articles {
		body := ""
		if art.Contenu != nil {
			body = *art.Contenu
		} else if art.Extrait != nil {
			body = *art.Extrait
		}
		kind, ok := m.Classify(art.Titre, body)
		if !ok {
			continue
		}
		media, found := names[art.MediaID]
		if !found {
			media = ChannelLabel(models.ContentArticle)
		}
		a := Alert{
			ID:          art.ID,
			ContentType: models.ContentArticle,
			ContentID:   art.ID,
			Type:        kind,
			Title:       art.Titre,
			Media:       media,
			Severity:    typeSeverity[kind],
			Status:      reviewStatus,
		}
		if art.DatePublication.Valid() {
			a.at = art.DatePublication.Time
			a.Date = RelativeTimeLabel(a.at, now)
		}
		alerts = append(alerts, a)
	}
	return summarize(SourceKeywords, alerts)
}

func summarize(source string, alerts []Alert) Sensitive {
	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].at.After(alerts[j].at) })

	counts := make(map[string]int, len(AlertTypes))
	weeks := make(map[string]*WeekAlerts)
	for _, a := range alerts {
		counts[a.Type]++

		label := undatedWeekLabel
		if !a.at.IsZero() {
			year, week := a.at.ISOWeek()
			label = fmt.Sprintf("%d-S%02d", year, week)
		}
		w, ok := weeks[label]
		if !ok {
			w = &WeekAlerts{Semaine: label}
			weeks[label] = w
		}
		switch a.Type {
		case AlertHate:
			w.Haine++
		case AlertMisinformation:
			w.Desinformation++
		default:
			w.Sensible++
		}
	}

	out := Sensitive{
		Source: source,
		Total:  len(alerts),
		Alerts: alerts[:min(len(alerts), recentAlerts)],
		Counts: make([]AlertTypeCount, len(AlertTypes)),
		Weekly: make([]WeekAlerts, 0, len(weeks)),
	}
	for i, t := range AlertTypes {
		out.Counts[i] = AlertTypeCount{Type: t, Count: counts[t], Severity: typeSeverity[t]}
	}
	for _, w := range weeks {
		out.Weekly = append(out.Weekly, *w)
	}
	sort.Slice(out.Weekly, func(i, j int) bool { return out.Weekly[i].Semaine < out.Weekly[j].Semaine })
	return out
}

// EmptySensitive is shown when loading fails.
func EmptySensitive(notice string) Sensitive {
	s := summarize(SourceModeration, nil)
	s.Alerts = []Alert{}
	s.Notice = notice
	return s
}
