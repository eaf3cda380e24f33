package report

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jonesrussell/north-cloud/media-scan/internal/dashboard"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// ProblematicShare estimates problematic articles as a flat share of the
// collected total until the backend exposes a per-window moderation count.
const ProblematicShare = 0.15

// Summary holds the executive summary figures.
type Summary struct {
	TotalMedias       int
	ActiveMedias      int
	InactiveMedias    int
	MediaConformity   float64
	Scrapings         int
	Articles          int
	Problematic       int
	ArticleConformity float64
	Categories        int
	Classified        int
	TopMedia          string
}

// Summarize computes the executive summary of a bundle.
func Summarize(b Bundle) Summary {
	s := Summary{
		TotalMedias: len(b.Medias),
		Scrapings:   len(b.History.Tasks),
		Articles:    b.Stats.TotalArticles,
		Categories:  b.Stats.TotalCategories,
		TopMedia:    models.NotAvailable,
	}
	for _, m := range b.Medias {
		if m.Actif {
			s.ActiveMedias++
		}
	}
	s.InactiveMedias = s.TotalMedias - s.ActiveMedias
	if s.TotalMedias > 0 {
		s.MediaConformity = round1(float64(s.ActiveMedias) / float64(s.TotalMedias) * 100)
	}

	s.Problematic = int(math.Round(float64(s.Articles) * ProblematicShare))
	if s.Articles > 0 {
		s.ArticleConformity = round1(float64(s.Articles-s.Problematic) / float64(s.Articles) * 100)
	}

	for _, c := range b.Categories {
		s.Classified += c.Total
	}
	if len(b.Ranking) > 0 && b.Ranking[0].Nom != "" {
		s.TopMedia = b.Ranking[0].Nom
	}
	return s
}

// CategoryLine is one category with its share of classified articles.
type CategoryLine struct {
	Name       string
	Total      int
	Percentage float64
	Confidence float64
}

// CategoryLines computes shares that add up to exactly 100.0.
func CategoryLines(cats []models.CategoryStat) []CategoryLine {
	counts := make([]int, len(cats))
	for i, c := range cats {
		counts[i] = c.Total
	}
	pcts := dashboard.Percentages(counts)
	out := make([]CategoryLine, len(cats))
	for i, c := range cats {
		name := c.Categorie
		if name == "" {
			name = models.NotAvailable
		}
		out[i] = CategoryLine{Name: name, Total: c.Total, Percentage: pcts[i], Confidence: c.ConfianceMoyenne * 100}
	}
	return out
}

// AverageConfidence is the mean category confidence in percent.
func AverageConfidence(cats []models.CategoryStat) float64 {
	if len(cats) == 0 {
		return 0
	}
	var sum float64
	for _, c := range cats {
		sum += c.ConfianceMoyenne
	}
	return sum / float64(len(cats)) * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

var frenchPrinter = message.NewPrinter(language.French)

// frenchCount groups thousands with plain spaces: 10000 → "10 000".
func frenchCount(n int) string {
	return strings.Map(func(r rune) rune {
		if r == '\u00a0' || r == '\u202f' {
			return ' '
		}
		return r
	}, frenchPrinter.Sprintf("%d", n))
}
