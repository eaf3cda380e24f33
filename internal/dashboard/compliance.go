package dashboard

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// ErrUnknownRule is returned for a compliance rule name RuleByName does not know.
var ErrUnknownRule = errors.New("unknown compliance rule")

// Compliance statuses.
const (
	StatusCompliant = "compliant"
	StatusWarning   = "warning"
	StatusAlert     = "alert"
)

// Rule names accepted by RuleByName.
const (
	RuleDecay    = "decay"
	RuleActivity = "activity"
)

const (
	// RequiredDays is the rolling window a media must stay active within.
	RequiredDays = 90
	// ExpectedPublications is the weekly publication target.
	ExpectedPublications = 40

	decayWarningDays   = 60
	activityAlertBelow = 70
	activityWarnBelow  = 90
	daysPerWeek        = 7
)

// ComplianceInput is the per-media activity a Rule scores. ActiveDays and
// TotalPublications are counted over the last Window days; a zero Window
// reads as RequiredDays.
type ComplianceInput struct {
	DaysSinceLastPub  int
	ActiveDays        int
	TotalPublications int
	Window            int
}

func (in ComplianceInput) window() int {
	if in.Window <= 0 {
		return RequiredDays
	}
	return in.Window
}

// Rule scores a media's publication activity on a 0..100 scale.
type Rule interface {
	Name() string
	Score(in ComplianceInput) int
	Status(in ComplianceInput, score int) string
}

// DecayRule penalises time since the last publication.
type DecayRule struct{}

func (DecayRule) Name() string { return RuleDecay }

func (DecayRule) Score(in ComplianceInput) int {
	inactivity := math.Max(0, 100-float64(in.DaysSinceLastPub)/RequiredDays*100)
	return blend(inactivity, publicationCompliance(in))
}

func (DecayRule) Status(in ComplianceInput, _ int) string {
	switch {
	case in.DaysSinceLastPub >= RequiredDays:
		return StatusAlert
	case in.DaysSinceLastPub >= decayWarningDays:
		return StatusWarning
	default:
		return StatusCompliant
	}
}

// ActivityRule rewards the share of active days within the window.
type ActivityRule struct{}

func (ActivityRule) Name() string { return RuleActivity }

func (ActivityRule) Score(in ComplianceInput) int {
	activity := math.Min(100, float64(in.ActiveDays)/float64(in.window())*100)
	return blend(activity, publicationCompliance(in))
}

func (ActivityRule) Status(_ ComplianceInput, score int) string {
	switch {
	case score < activityAlertBelow:
		return StatusAlert
	case score < activityWarnBelow:
		return StatusWarning
	default:
		return StatusCompliant
	}
}

// RuleByName resolves a configured rule. An empty name selects DecayRule.
func RuleByName(name string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RuleDecay:
		return DecayRule{}, nil
	case RuleActivity:
		return ActivityRule{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownRule, name)
	}
}

// PublicationsPerWeek averages the window's publications per week.
func PublicationsPerWeek(in ComplianceInput) int {
	return int(math.Round(float64(in.TotalPublications) / float64(in.window()) * daysPerWeek))
}

func publicationCompliance(in ComplianceInput) float64 {
	return math.Min(100, float64(PublicationsPerWeek(in))/ExpectedPublications*100)
}

func blend(a, b float64) int {
	return int(math.Round((a + b) / 2))
}

// ComplianceRow is one media's compliance status.
type ComplianceRow struct {
	ID                   int    `json:"id"`
	Name                 string `json:"name"`
	URL                  string `json:"url"`
	Score                int    `json:"score"`
	Status               string `json:"status"`
	LastPublication      string `json:"last_publication"`
	DaysSinceLastPub     int    `json:"days_since_last_pub"`
	DaysRemaining        int    `json:"days_remaining"`
	ActiveDays           int    `json:"active_days"`
	RequiredDays         int    `json:"required_days"`
	PublicationsPerWeek  int    `json:"publications_per_week"`
	ExpectedPublications int    `json:"expected_publications"`
}

type ComplianceSummary struct {
	Total     int `json:"total"`
	Compliant int `json:"compliant"`
	Warning   int `json:"warning"`
	Alert     int `json:"alert"`
}

type Compliance struct {
	Rule    string            `json:"rule"`
	Rows    []ComplianceRow   `json:"rows"`
	Summary ComplianceSummary `json:"summary"`
	Notice  string            `json:"notice,omitempty"`
}

// InputFromAudience reads the web sub-record of a global audience entry
// fetched over window days; a missing sub-record reads as zero days.
func InputFromAudience(a models.AudienceGlobal, window int) ComplianceInput {
	in := ComplianceInput{TotalPublications: a.TotalPublications, Window: window}
	if a.Web != nil {
		in.DaysSinceLastPub = a.Web.JoursDepuisDernierePub
		in.ActiveDays = a.Web.JoursAvecPublication
	}
	return in
}

// BuildCompliance scores every media with rule over an audience fetched for
// window days.
func BuildCompliance(rule Rule, audience []models.AudienceGlobal, window int) Compliance {
	if rule == nil {
		rule = DecayRule{}
	}
	out := Compliance{Rule: rule.Name(), Rows: make([]ComplianceRow, 0, len(audience))}
	for _, a := range audience {
		in := InputFromAudience(a, window)
		score := rule.Score(in)
		status := rule.Status(in, score)
		out.Rows = append(out.Rows, ComplianceRow{
			ID:                   a.ID,
			Name:                 a.Nom,
			URL:                  a.URL,
			Score:                score,
			Status:               status,
			LastPublication:      LastPublicationLabel(in.DaysSinceLastPub),
			DaysSinceLastPub:     in.DaysSinceLastPub,
			DaysRemaining:        max(0, RequiredDays-in.DaysSinceLastPub),
			ActiveDays:           in.ActiveDays,
			RequiredDays:         in.window(),
			PublicationsPerWeek:  PublicationsPerWeek(in),
			ExpectedPublications: ExpectedPublications,
		})
		out.Summary.add(status)
	}
	return out
}

func (s *ComplianceSummary) add(status string) {
	s.Total++
	switch status {
	case StatusCompliant:
		s.Compliant++
	case StatusWarning:
		s.Warning++
	case StatusAlert:
		s.Alert++
	}
}

// EmptyCompliance is shown when loading fails.
func EmptyCompliance(rule Rule, notice string) Compliance {
	c := BuildCompliance(rule, nil, RequiredDays)
	c.Notice = notice
	return c
}
