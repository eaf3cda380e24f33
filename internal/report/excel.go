package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// Workbook sheet names, in order.
const (
	SheetSummary    = "Résumé Exécutif"
	SheetTop5       = "Top 5 Médias"
	SheetRanking    = "Classement Complet"
	SheetCategories = "Catégories"
	SheetArticles   = "Articles"
)

// Sheet is one worksheet as literal rows; an empty row is a separator.
type Sheet struct {
	Name string
	Rows [][]any
}

var rankingHeader = []any{"Rang", "Média", "Articles", "Posts FB", "Likes", "Commentaires", "Partages", "Engagement"}

// Sheets lays out the workbook content. Every sheet is present even when
// its data is empty.
func Sheets(b Bundle) []Sheet {
	s := Summarize(b)
	summary := [][]any{
		{"RAPPORT DE SURVEILLANCE MÉDIAS"},
		{b.Period.Label()},
		{fmt.Sprintf("Période: %s - %s", b.Start.Format(dateLayout), b.End.Format(dateLayout))},
		{},
		{"RÉSUMÉ EXÉCUTIF"},
		{},
		{"MÉDIAS"},
		{"Total de médias", s.TotalMedias},
		{"Médias conformes (actifs)", s.ActiveMedias},
		{"Médias non conformes (inactifs)", s.InactiveMedias},
		{"Taux de conformité médias (%)", s.MediaConformity},
		{},
		{"COLLECTE"},
		{"Scrapings lancés", s.Scrapings},
		{"Articles collectés", s.Articles},
		{"Articles problématiques", s.Problematic},
		{"Taux de conformité articles (%)", s.ArticleConformity},
		{},
		{"THÉMATIQUES"},
		{"Catégories identifiées", s.Categories},
		{"Articles classifiés", s.Classified},
		{"Top média", s.TopMedia},
	}

	top := b.Ranking[:min(topMediaCount, len(b.Ranking))]
	return []Sheet{
		{Name: SheetSummary, Rows: summary},
		{Name: SheetTop5, Rows: rankingSheet("TOP 5 MÉDIAS LES PLUS ACTIFS", top)},
		{Name: SheetRanking, Rows: rankingSheet("CLASSEMENT COMPLET DES MÉDIAS", b.Ranking)},
		{Name: SheetCategories, Rows: categorySheet(b.Categories)},
		{Name: SheetArticles, Rows: articleSheet(b.Articles)},
	}
}

func rankingSheet(title string, entries []models.RankingEntry) [][]any {
	rows := [][]any{{title}, {}, rankingHeader}
	for i, m := range entries {
		rows = append(rows, []any{
			i + 1, orNA(m.Nom), m.TotalArticles, m.TotalPostsFacebook,
			m.Likes(), m.Comments(), m.Shares(), m.EngagementTotal,
		})
	}
	return rows
}

func categorySheet(cats []models.CategoryStat) [][]any {
	rows := [][]any{
		{"RÉPARTITION THÉMATIQUE DÉTAILLÉE"},
		{},
		{"PROPORTION DE CHAQUE CATÉGORIE"},
		{},
		{"Catégorie", "Nombre", "% Total", "Confiance (%)"},
	}
	total := 0
	for _, l := range CategoryLines(cats) {
		total += l.Total
		rows = append(rows, []any{l.Name, l.Total, l.Percentage, round1(l.Confidence)})
	}
	return append(rows,
		[]any{},
		[]any{"STATISTIQUES"},
		[]any{"Total d'articles classifiés", total},
		[]any{"Nombre de catégories", len(cats)},
		[]any{"Confiance moyenne (%)", round1(AverageConfidence(cats))},
	)
}

func articleSheet(articles []models.Article) [][]any {
	rows := [][]any{{"ARTICLES RÉCENTS"}, {}, {"Date", "Titre", "Auteur", "URL"}}
	for _, a := range articles {
		author := models.NotAvailable
		if a.Auteur != nil && *a.Auteur != "" {
			author = *a.Auteur
		}
		rows = append(rows, []any{articleDate(a), orNA(a.Titre), author, orNA(a.URL)})
	}
	return rows
}

// RenderExcel writes the workbook as XLSX.
func RenderExcel(b Bundle) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sh := range Sheets(b) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sh.Name, err)
		}
		for r, row := range sh.Rows {
			if len(row) == 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, err
			}
			if err = f.SetSheetRow(sh.Name, cell, &row); err != nil {
				return nil, fmt.Errorf("write %s row %d: %w", sh.Name, r+1, err)
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
