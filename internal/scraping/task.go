// Package scraping tracks scraping runs launched from the dashboard.
package scraping

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// Task types an operator can launch.
const (
	TypeHTML     = "html"
	TypeRSS      = "rss"
	TypeTwitter  = "twitter"
	TypeFacebook = "facebook"
)

// Task statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// DefaultDays is the window of a manually launched task.
const DefaultDays = 7

var (
	ErrUnknownType  = errors.New("unknown scraping task type")
	ErrTaskNotFound = errors.New("scraping task not found")
)

// Task is one tracked scraping run.
type Task struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	Days           int        `json:"days"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	ItemsCollected int        `json:"items_collected"`
	Message        string     `json:"message,omitempty"`
	Errors         []string   `json:"errors,omitempty"`
}

// Done reports whether the task reached a final status.
func (t Task) Done() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

// Duration is the elapsed run time, up to now for running tasks.
func (t Task) Duration(now time.Time) time.Duration {
	if t.FinishedAt != nil {
		return t.FinishedAt.Sub(t.StartedAt)
	}
	return now.Sub(t.StartedAt)
}

// RequestFor maps a task type onto a backend scraping request over every
// media. Web types skip both social channels; social types skip the other.
func RequestFor(taskType string, days int) (models.ScrapingRequest, error) {
	req := models.NewScrapingRequest()
	req.All = true
	req.Days = DefaultDays
	if days > 0 {
		req.Days = days
	}
	switch taskType {
	case TypeHTML, TypeRSS:
		req.SkipFacebook = true
		req.SkipTwitter = true
	case TypeFacebook:
		req.SkipTwitter = true
	case TypeTwitter:
		req.SkipFacebook = true
	default:
		return models.ScrapingRequest{}, fmt.Errorf("%w: %q", ErrUnknownType, taskType)
	}
	return req, nil
}
