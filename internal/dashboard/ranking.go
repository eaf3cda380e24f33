package dashboard

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// Trend directions.
const (
	TrendUp     = "up"
	TrendStable = "stable"
	TrendDown   = "down"
)

const (
	reachFactor   = 3
	maxScore      = 100
	comparedMedia = 3
)

// RankedMedia is one row of the influence ranking.
type RankedMedia struct {
	Rank         int    `json:"rank"`
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	Publications int    `json:"articles"`
	Engagement   int    `json:"engagement"`
	Reach        int    `json:"reach"`
	Trend        string `json:"trend"`
	// Change is the rank movement against the previous window, e.g. "+2".
	Change string `json:"change"`
	// PreviousRank is zero when the media had no activity before.
	PreviousRank int `json:"previous_rank,omitempty"`
	// New marks a media active now but not in the previous window.
	New bool `json:"new,omitempty"`
}

// ComparisonRow is one axis of the top-3 radar chart, keyed by media name.
type ComparisonRow struct {
	Critere string         `json:"critere"`
	Values  map[string]int `json:"values"`
}

type Ranking struct {
	Media      []RankedMedia   `json:"media"`
	Comparison []ComparisonRow `json:"comparison"`
	Notice     string          `json:"notice,omitempty"`
}

// InfluenceScore blends engagement per publication with volume, capped at 100.
func InfluenceScore(engagement, publications int) int {
	s := float64(engagement)/float64(max(publications, 1))/10 + float64(publications)/100
	return min(maxScore, int(math.Round(s)))
}

// RankMedia scores every entry and orders by engagement (descending), then
// score (descending), then name. previous holds the entries of the preceding
// window of equal length; nil disables movement.
func RankMedia(current []models.RankingEntry, previous map[int]int) []RankedMedia {
	out := make([]RankedMedia, len(current))
	for i, e := range current {
		pubs := e.Publications()
		out[i] = RankedMedia{
			ID:           e.ID,
			Name:         e.Nom,
			Score:        InfluenceScore(e.EngagementTotal, pubs),
			Publications: pubs,
			Engagement:   e.EngagementTotal,
			Reach:        e.EngagementTotal * reachFactor,
			Trend:        TrendStable,
			Change:       "0",
		}
	}

	sortRanked(out)
	for i := range out {
		out[i].Rank = i + 1
	}

	if previous != nil {
		applyMovement(out, previous)
	}
	return out
}

func sortRanked(rows []RankedMedia) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Engagement != b.Engagement {
			return a.Engagement > b.Engagement
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// PreviousEngagement derives the engagement of the window preceding the
// current one: totals over twice the window minus totals over the window.
func PreviousEngagement(current, doubled []models.RankingEntry) map[int]int {
	cur := make(map[int]int, len(current))
	for _, e := range current {
		cur[e.ID] = e.EngagementTotal
	}
	prev := make(map[int]int, len(doubled))
	for _, e := range doubled {
		prev[e.ID] = max(0, e.EngagementTotal-cur[e.ID])
	}
	return prev
}

func applyMovement(rows []RankedMedia, previous map[int]int) {
	type prevRow struct {
		id, engagement int
		name           string
	}
	prior := make([]prevRow, 0, len(rows))
	for _, r := range rows {
		if eng := previous[r.ID]; eng > 0 {
			prior = append(prior, prevRow{id: r.ID, engagement: eng, name: r.Name})
		}
	}
	sort.SliceStable(prior, func(i, j int) bool {
		if prior[i].engagement != prior[j].engagement {
			return prior[i].engagement > prior[j].engagement
		}
		return strings.ToLower(prior[i].name) < strings.ToLower(prior[j].name)
	})
	prevRank := make(map[int]int, len(prior))
	for i, p := range prior {
		prevRank[p.id] = i + 1
	}

	for i := range rows {
		r := &rows[i]
		pr, ok := prevRank[r.ID]
		if !ok {
			if r.Engagement > 0 {
				r.New = true
				r.Trend = TrendUp
				r.Change = "+" + strconv.Itoa(len(rows)-r.Rank+1)
			}
			continue
		}
		r.PreviousRank = pr
		move := pr - r.Rank
		r.Change = signedInt(move)
		switch {
		case move > 0:
			r.Trend = TrendUp
		case move < 0:
			r.Trend = TrendDown
		default:
			r.Trend = TrendStable
		}
	}
}

// TopComparison builds the radar rows for the first three media. Fewer than
// three media yield no comparison.
func TopComparison(rows []RankedMedia) []ComparisonRow {
	if len(rows) < comparedMedia {
		return []ComparisonRow{}
	}
	top := rows[:comparedMedia]
	axis := func(name string, f func(RankedMedia) int) ComparisonRow {
		row := ComparisonRow{Critere: name, Values: make(map[string]int, comparedMedia)}
		for _, m := range top {
			row.Values[m.Name] = f(m)
		}
		return row
	}
	capped := func(v int, div float64) int {
		return min(maxScore, int(math.Round(float64(v)/div)))
	}
	return []ComparisonRow{
		axis("Volume", func(m RankedMedia) int { return capped(m.Publications, 30) }),
		axis("Engagement", func(m RankedMedia) int { return capped(m.Engagement, 100) }),
		axis("Portée", func(m RankedMedia) int { return capped(m.Reach, 500) }),
		axis("Score", func(m RankedMedia) int { return m.Score }),
	}
}
