package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

var ErrUnknownFrequency = errors.New("unknown schedule frequency")

var frequencySpecs = map[string]string{
	models.FrequencyHourly: "@hourly",
	models.FrequencyDaily:  "@daily",
	models.FrequencyWeekly: "@weekly",
}

// NextRun returns when a backend schedule with the given frequency fires
// after from.
func NextRun(frequency string, from time.Time) (time.Time, error) {
	spec, ok := frequencySpecs[frequency]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownFrequency, frequency)
	}
	sched, err := standardParser().Parse(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", spec, err)
	}
	return sched.Next(from), nil
}

// FillNextRun sets NextRun on an enabled schedule the backend returned
// without one.
func FillNextRun(s models.ScrapingSchedule, from time.Time) models.ScrapingSchedule {
	if !s.Enabled || (s.NextRun != nil && !s.NextRun.IsZero()) {
		return s
	}
	next, err := NextRun(s.Frequency, from)
	if err != nil {
		return s
	}
	s.NextRun = models.NewTimestamp(next)
	return s
}
