package dashboard

import (
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// DayNames is the fixed chart axis, Sunday first.
var DayNames = [7]string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

// DayBucket is one weekday of activity.
type DayBucket struct {
	Jour       string `json:"jour"`
	Articles   int    `json:"articles"`
	Engagement int    `json:"engagement"`
}

// GroupByWeekday buckets articles by publication weekday in loc. It always
// returns seven buckets in DayNames order. Undated articles are skipped.
func GroupByWeekday(articles []models.Article, loc *time.Location) []DayBucket {
	if loc == nil {
		loc = time.UTC
	}
	buckets := make([]DayBucket, len(DayNames))
	for i, name := range DayNames {
		buckets[i].Jour = name
	}
	for _, a := range articles {
		if !a.DatePublication.Valid() {
			continue
		}
		day := a.DatePublication.In(loc).Weekday()
		buckets[day].Articles++
		buckets[day].Engagement += max(a.Vues, 0) + max(a.Commentaires, 0)
	}
	return buckets
}
