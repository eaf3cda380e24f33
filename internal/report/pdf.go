package report

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// Report sections, in document order.
const (
	SectionTitle      = "title"
	SectionSummary    = "summary"
	SectionTop5       = "top5"
	SectionRanking    = "ranking"
	SectionCategories = "categories"
	SectionArticles   = "articles"
)

const (
	fontFamily = "Helvetica"

	pageCenterX = 105.0
	marginLeft  = 14.0
	tableWidth  = 182.0
	topY        = 20.0
	footerY     = 290.0
	// tableBottom is where table rows wrap onto a new page.
	tableBottom = 280.0

	rankingBreakY  = 220.0
	articlesBreakY = 200.0

	headerRowHeight = 7.0
	bodyRowHeight   = 6.0

	topMediaCount   = 5
	articlesShown   = 30
	titleMaxRunes   = 80
	dateLayout      = "02/01/2006"
	timestampLayout = "02/01/2006 15:04:05"
)

type rgb struct{ r, g, b int }

var (
	headerGreen = rgb{34, 197, 94}
	headerBlue  = rgb{59, 130, 246}
	stripe      = rgb{245, 245, 245}
)

// Placement records the page a section starts on.
type Placement struct {
	Section string
	Page    int
	Y       float64
}

type tableStyle struct {
	header   rgb
	striped  bool
	headSize float64
	bodySize float64
}

type pdfWriter struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	y    float64
	plan []Placement
}

// RenderPDF lays the bundle out as an A4 report and returns the document
// along with the page each section landed on.
func RenderPDF(b Bundle) ([]byte, []Placement, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(b.GeneratedAt)
	pdf.SetTitle("Rapport de surveillance médias", true)
	pdf.AliasNbPages("")

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	generated := b.GeneratedAt.Format(timestampLayout)
	pdf.SetFooterFunc(func() {
		pdf.SetFont(fontFamily, "", 8)
		pdf.SetTextColor(150, 150, 150)
		w.centered(footerY, fmt.Sprintf("Page %d/{nb} - Généré le %s", pdf.PageNo(), generated))
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	w.title(b)
	w.summary(Summarize(b))
	w.topMedia(b.Ranking)
	w.fullRanking(b.Ranking)
	w.categories(b.Categories)
	w.articles(b.Articles)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), w.plan, nil
}

func (w *pdfWriter) mark(section string) {
	w.plan = append(w.plan, Placement{Section: section, Page: w.pdf.PageNo(), Y: w.y})
}

func (w *pdfWriter) newPage() {
	w.pdf.AddPage()
	w.y = topY
}

func (w *pdfWriter) font(style string, size float64) {
	w.pdf.SetFont(fontFamily, style, size)
}

func (w *pdfWriter) text(x, y float64, s string) {
	w.pdf.Text(x, y, w.tr(s))
}

func (w *pdfWriter) centered(y float64, s string) {
	t := w.tr(s)
	w.pdf.Text(pageCenterX-w.pdf.GetStringWidth(t)/2, y, t)
}

func (w *pdfWriter) heading(s string) {
	w.font("B", 14)
	w.text(marginLeft, w.y, s)
}

func (w *pdfWriter) label(s string) {
	w.font("B", 10)
	w.text(20, w.y, s)
	w.font("", 10)
}

func (w *pdfWriter) bullet(s string) {
	if w.y > tableBottom {
		w.newPage()
		w.font("", 10)
	}
	w.text(25, w.y, "• "+s)
}

func (w *pdfWriter) title(b Bundle) {
	w.mark(SectionTitle)
	w.font("B", 22)
	w.centered(20, "RAPPORT DE SURVEILLANCE MÉDIAS")
	w.font("", 12)
	w.centered(28, b.Period.Label())
	w.font("", 9)
	w.centered(34, fmt.Sprintf("Période: %s - %s", b.Start.Format(dateLayout), b.End.Format(dateLayout)))
	w.y = 45
}

func (w *pdfWriter) summary(s Summary) {
	w.mark(SectionSummary)
	w.heading("RÉSUMÉ EXÉCUTIF")
	w.y += 10

	w.label("Médias:")
	w.y += 6
	w.bullet(fmt.Sprintf("Total: %d", s.TotalMedias))
	w.y += 5
	w.bullet(fmt.Sprintf("Conformes (actifs): %d", s.ActiveMedias))
	w.y += 5
	w.bullet(fmt.Sprintf("Non conformes (inactifs): %d", s.InactiveMedias))
	w.y += 5
	w.bullet("Taux de conformité médias: " + percent(s.MediaConformity, s.TotalMedias > 0))
	w.y += 8

	w.label("Collecte:")
	w.y += 6
	w.bullet(fmt.Sprintf("Scrapings lancés: %d", s.Scrapings))
	w.y += 5
	w.bullet(fmt.Sprintf("Articles collectés: %d", s.Articles))
	w.y += 5
	w.bullet(fmt.Sprintf("Articles problématiques: %d", s.Problematic))
	w.y += 5
	w.bullet("Taux de conformité: " + percent(s.ArticleConformity, s.Articles > 0))
	w.y += 8

	w.label("Thématiques:")
	w.y += 6
	w.bullet(fmt.Sprintf("Catégories identifiées: %d", s.Categories))
	w.y += 5
	w.bullet(fmt.Sprintf("Articles classifiés: %d", s.Classified))
	w.y += 5
	w.bullet("Top média: " + s.TopMedia)
	w.y += 12
}

var rankingHead = []string{"#", "Média", "Articles", "Posts FB", "Likes", "Engagement"}
var rankingWidths = []float64{12, 62, 24, 24, 28, 32}

func rankingTableRows(entries []models.RankingEntry) [][]string {
	rows := make([][]string, len(entries))
	for i, m := range entries {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			orNA(m.Nom),
			strconv.Itoa(m.TotalArticles),
			strconv.Itoa(m.TotalPostsFacebook),
			frenchCount(m.Likes()),
			frenchCount(m.EngagementTotal),
		}
	}
	return rows
}

func (w *pdfWriter) topMedia(ranking []models.RankingEntry) {
	if len(ranking) == 0 {
		return
	}
	w.mark(SectionTop5)
	w.heading("TOP 5 MÉDIAS LES PLUS ACTIFS")
	w.y += 8
	w.table(rankingHead, rankingWidths, rankingTableRows(ranking[:min(topMediaCount, len(ranking))]),
		tableStyle{header: headerGreen, headSize: 9, bodySize: 8})
	w.y += 12
}

func (w *pdfWriter) fullRanking(ranking []models.RankingEntry) {
	if len(ranking) <= topMediaCount {
		return
	}
	if w.y > rankingBreakY {
		w.newPage()
	}
	w.mark(SectionRanking)
	w.heading("CLASSEMENT COMPLET DES MÉDIAS")
	w.y += 8
	w.table(rankingHead, rankingWidths, rankingTableRows(ranking),
		tableStyle{header: headerBlue, striped: true, headSize: 9, bodySize: 8})
	w.y += 12
}

func (w *pdfWriter) categories(cats []models.CategoryStat) {
	if len(cats) == 0 {
		return
	}
	w.newPage()
	w.mark(SectionCategories)
	w.heading("RÉPARTITION THÉMATIQUE DÉTAILLÉE")
	w.y += 10

	lines := CategoryLines(cats)
	total := 0
	w.label("Proportion de chaque catégorie:")
	w.y += 6
	for _, l := range lines {
		total += l.Total
		w.bullet(fmt.Sprintf("%s: %.1f%% (%d articles)", l.Name, l.Percentage, l.Total))
		w.y += 5
	}
	w.y += 8

	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = []string{l.Name, strconv.Itoa(l.Total), fmt.Sprintf("%.1f%%", l.Percentage), fmt.Sprintf("%.0f%%", l.Confidence)}
	}
	w.table([]string{"Catégorie", "Nombre", "Proportion", "Confiance"}, []float64{70, 35, 40, 37}, rows,
		tableStyle{header: headerGreen, headSize: 10, bodySize: 9})
	w.y += 12

	w.label("Statistiques:")
	w.y += 6
	w.bullet(fmt.Sprintf("Total d'articles classifiés: %d", total))
	w.y += 5
	w.bullet(fmt.Sprintf("Nombre de catégories: %d", len(cats)))
	w.y += 5
	w.bullet(fmt.Sprintf("Confiance moyenne: %.1f%%", AverageConfidence(cats)))
	w.y += 5
}

func (w *pdfWriter) articles(articles []models.Article) {
	if len(articles) == 0 {
		return
	}
	if w.y > articlesBreakY {
		w.newPage()
	}
	w.mark(SectionArticles)
	w.heading("ARTICLES RÉCENTS")
	w.y += 8

	shown := articles[:min(articlesShown, len(articles))]
	rows := make([][]string, len(shown))
	for i, a := range shown {
		rows[i] = []string{articleDate(a), TruncateTitle(a.Titre)}
	}
	w.table([]string{"Date", "Titre"}, []float64{25, 157}, rows,
		tableStyle{header: headerBlue, striped: true, headSize: 9, bodySize: 7})
	w.y += 12
}

func (w *pdfWriter) tableHeader(head []string, widths []float64, st tableStyle) {
	w.pdf.SetFillColor(st.header.r, st.header.g, st.header.b)
	w.pdf.SetTextColor(255, 255, 255)
	w.font("B", st.headSize)
	w.pdf.SetXY(marginLeft, w.y)
	for i, h := range head {
		w.pdf.CellFormat(widths[i], headerRowHeight, w.fit(h, widths[i]), "1", 0, "L", true, 0, "")
	}
	w.y += headerRowHeight
	w.pdf.SetTextColor(0, 0, 0)
}

// table draws a header row and the body, repeating the header on every
// page the body spills onto.
func (w *pdfWriter) table(head []string, widths []float64, rows [][]string, st tableStyle) {
	w.tableHeader(head, widths, st)
	for i, row := range rows {
		if w.y+bodyRowHeight > tableBottom {
			w.newPage()
			w.tableHeader(head, widths, st)
		}
		w.font("", st.bodySize)
		fill := st.striped && i%2 == 1
		if fill {
			w.pdf.SetFillColor(stripe.r, stripe.g, stripe.b)
		}
		border := "1"
		if st.striped {
			border = "B"
		}
		w.pdf.SetXY(marginLeft, w.y)
		for c, cell := range row {
			w.pdf.CellFormat(widths[c], bodyRowHeight, w.fit(cell, widths[c]), border, 0, "L", fill, 0, "")
		}
		w.y += bodyRowHeight
	}
}

// fit translates s and shortens it to the cell width.
func (w *pdfWriter) fit(s string, width float64) string {
	t := w.tr(s)
	const padding = 2
	for len(t) > 1 && w.pdf.GetStringWidth(t) > width-padding {
		t = t[:len(t)-1]
	}
	return t
}

// TruncateTitle keeps the first 80 characters of a title, marking the cut
// with "...".
func TruncateTitle(title string) string {
	if title == "" {
		return models.NotAvailable
	}
	if utf8.RuneCountInString(title) <= titleMaxRunes {
		return title
	}
	return string([]rune(title)[:titleMaxRunes]) + "..."
}

func articleDate(a models.Article) string {
	if !a.DatePublication.Valid() {
		return models.NotAvailable
	}
	return a.DatePublication.Format(dateLayout)
}

func percent(v float64, ok bool) string {
	if !ok {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", v)
}

func orNA(s string) string {
	if s == "" {
		return models.NotAvailable
	}
	return s
}
