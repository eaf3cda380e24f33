package dashboard

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Counts are grouped the way the dashboard has always shown them: 1200 → "1,200".
var countPrinter = message.NewPrinter(language.English)

// FormatCount groups thousands with commas.
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// LastPublicationLabel describes days since the last publication.
func LastPublicationLabel(days int) string {
	switch {
	case days <= 0:
		return "Aujourd'hui"
	case days == 1:
		return "Il y a 1 jour"
	case days < 7:
		return fmt.Sprintf("Il y a %d jours", days)
	default:
		return fmt.Sprintf("Il y a %d semaines", days/7)
	}
}

// RelativeTimeLabel describes how long ago t happened, at hour resolution.
func RelativeTimeLabel(t, now time.Time) string {
	hours := int(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return "À l'instant"
	case hours < 24:
		return fmt.Sprintf("Il y a %dh", hours)
	case hours < 48:
		return "Hier"
	default:
		return fmt.Sprintf("Il y a %dj", hours/24)
	}
}

// SignedPercent renders a change as "+12%", "-3%" or "0%".
func SignedPercent(p int) string {
	if p > 0 {
		return fmt.Sprintf("+%d%%", p)
	}
	return fmt.Sprintf("%d%%", p)
}

func signedInt(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return strconv.Itoa(n)
}
