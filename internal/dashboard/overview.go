package dashboard

import (
	"strconv"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// ColorCount is the size of the chart palette; theme colours cycle through it.
const ColorCount = 6

// KPICard is one headline figure. Change labels are fixed placeholders until
// the backend exposes period-over-period totals.
type KPICard struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change"`
}

// ThemeSlice is one category of the theme pie chart.
type ThemeSlice struct {
	Name       string `json:"name"`
	Value      int    `json:"value"`
	ColorIndex int    `json:"color_index"`
}

type Overview struct {
	KPIs   []KPICard    `json:"kpis"`
	Themes []ThemeSlice `json:"themes"`
	Weekly []DayBucket  `json:"weekly"`
	Notice string       `json:"notice,omitempty"`
}

// KPICards renders the four headline cards from the stats overview.
func KPICards(s models.Stats) []KPICard {
	return []KPICard{
		{Label: "Articles collectés", Value: FormatCount(s.TotalArticles), Change: "+15%"},
		{Label: "Médias surveillés", Value: strconv.Itoa(s.TotalMedias), Change: "100%"},
		{Label: "Catégories", Value: strconv.Itoa(s.TotalCategories), Change: "-"},
		{Label: "Top média", Value: s.TopMediaName(), Change: "+22%"},
	}
}

func ThemeSlices(stats []models.CategoryStat) []ThemeSlice {
	out := make([]ThemeSlice, len(stats))
	for i, s := range stats {
		out[i] = ThemeSlice{Name: s.Categorie, Value: s.Total, ColorIndex: i % ColorCount}
	}
	return out
}

// BuildOverview assembles the overview view.
func BuildOverview(s models.Stats, cats []models.CategoryStat, articles []models.Article, loc *time.Location) Overview {
	return Overview{
		KPIs:   KPICards(s),
		Themes: ThemeSlices(cats),
		Weekly: GroupByWeekday(articles, loc),
	}
}

// EmptyOverview is shown when loading fails.
func EmptyOverview(notice string) Overview {
	return Overview{
		KPIs:   KPICards(models.Stats{}),
		Themes: []ThemeSlice{},
		Weekly: GroupByWeekday(nil, time.UTC),
		Notice: notice,
	}
}
