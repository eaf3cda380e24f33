// Package report builds the downloadable PDF and Excel monitoring reports.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Period selects the report window.
type Period string

const (
	Daily  Period = "daily"
	Weekly Period = "weekly"
)

// Format selects the output document.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "xlsx"
)

var (
	ErrInvalidPeriod = errors.New("invalid report period")
	ErrInvalidFormat = errors.New("invalid report format")
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Daily, Weekly:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
}

// Days is the window length in days.
func (p Period) Days() int {
	if p == Weekly {
		return 7
	}
	return 1
}

// Label is the report subtitle.
func (p Period) Label() string {
	if p == Weekly {
		return "Rapport Hebdomadaire"
	}
	return "Rapport Journalier"
}

// ParseFormat accepts "pdf", "xlsx" and "excel".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "xlsx", "excel":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Filename is rapport_medias_<period>_<YYYY-MM-DD>.<ext>, dated in at's location
// so it matches the dates printed inside the document.
func Filename(p Period, f Format, at time.Time) string {
	return fmt.Sprintf("rapport_medias_%s_%s.%s", p, at.Format(time.DateOnly), f)
}
