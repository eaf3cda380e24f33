package dashboard

import (
	"math"
	"sort"
	"strconv"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// ThemeShare is one category of the thematic breakdown.
type ThemeShare struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Trend      string  `json:"trend"`
	ColorIndex int     `json:"color_index"`
}

// WeekRow is one week of the category pivot, labelled S1..Sn.
type WeekRow struct {
	Semaine    string         `json:"semaine"`
	StartDate  string         `json:"start_date"`
	Categories map[string]int `json:"categories"`
}

type Thematic struct {
	Total  int          `json:"total"`
	Themes []ThemeShare `json:"themes"`
	Weekly []WeekRow    `json:"weekly"`
	Notice string       `json:"notice,omitempty"`
}

// Percentages returns each count's share of the total with one decimal.
// Tenths are apportioned by largest remainder so a non-empty result sums to
// exactly 100.0.
func Percentages(counts []int) []float64 {
	out := make([]float64, len(counts))
	total := 0
	for _, c := range counts {
		total += max(c, 0)
	}
	if total == 0 {
		return out
	}

	const units = 1000
	tenths := make([]int, len(counts))
	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, len(counts))
	assigned := 0
	for i, c := range counts {
		exact := float64(max(c, 0)) * units / float64(total)
		tenths[i] = int(math.Floor(exact))
		assigned += tenths[i]
		rems[i] = rem{idx: i, frac: exact - float64(tenths[i])}
	}
	sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
	for i := 0; assigned < units; i++ {
		tenths[rems[i%len(rems)].idx]++
		assigned++
	}
	for i, t := range tenths {
		out[i] = float64(t) / 10
	}
	return out
}

// WeeklyPivot turns weekly category rows into one row per week. Weeks sort
// chronologically and every row carries every category, zero-filled.
func WeeklyPivot(rows []models.WeeklyCategoryStat, categories []string) []WeekRow {
	byWeek := make(map[string]map[string]int)
	for _, r := range rows {
		if byWeek[r.Semaine] == nil {
			byWeek[r.Semaine] = make(map[string]int)
		}
		byWeek[r.Semaine][r.Categorie] += r.Total
	}
	weeks := make([]string, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)

	out := make([]WeekRow, len(weeks))
	for i, w := range weeks {
		cats := make(map[string]int, len(categories))
		for _, c := range categories {
			cats[c] = byWeek[w][c]
		}
		for c, n := range byWeek[w] {
			cats[c] = n
		}
		out[i] = WeekRow{Semaine: "S" + strconv.Itoa(i+1), StartDate: w, Categories: cats}
	}
	return out
}

// CategoryTrend compares the last two weeks of the pivot for one category.
func CategoryTrend(weeks []WeekRow, category string) string {
	if len(weeks) < 2 {
		return "0%"
	}
	prev := weeks[len(weeks)-2].Categories[category]
	last := weeks[len(weeks)-1].Categories[category]
	switch {
	case prev == 0 && last == 0:
		return "0%"
	case prev == 0:
		return "+100%"
	}
	return SignedPercent(int(math.Round(float64(last-prev) / float64(prev) * 100)))
}

// BuildThematic assembles the thematic breakdown.
func BuildThematic(stats []models.CategoryStat, weekly []models.WeeklyCategoryStat) Thematic {
	counts := make([]int, len(stats))
	names := make([]string, len(stats))
	total := 0
	for i, s := range stats {
		counts[i] = s.Total
		names[i] = s.Categorie
		total += s.Total
	}
	pcts := Percentages(counts)
	pivot := WeeklyPivot(weekly, names)

	themes := make([]ThemeShare, len(stats))
	for i, s := range stats {
		themes[i] = ThemeShare{
			Name:       s.Categorie,
			Count:      s.Total,
			Percentage: pcts[i],
			Trend:      CategoryTrend(pivot, s.Categorie),
			ColorIndex: i % ColorCount,
		}
	}
	return Thematic{Total: total, Themes: themes, Weekly: pivot}
}

// EmptyThematic is shown when loading fails.
func EmptyThematic(notice string) Thematic {
	return Thematic{Themes: []ThemeShare{}, Weekly: []WeekRow{}, Notice: notice}
}
