package service

import (
	"context"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

const (
	scrapingTriggerPath  = "scraping/trigger/"
	scrapingSchedulePath = "scraping/schedule/"
	scrapingHistoryPath  = "scraping/history/"
)

type ScrapingService struct {
	client *apiclient.Client
}

// Trigger runs a scraping job on the backend and waits for its result.
func (s *ScrapingService) Trigger(ctx context.Context, req models.ScrapingRequest) (models.ScrapingResult, error) {
	if err := models.ValidateInput(req); err != nil {
		return models.ScrapingResult{}, err
	}
	return checked(apiclient.Post[models.ScrapingResult](ctx, s.client, scrapingTriggerPath, req).Unwrap())
}

func (s *ScrapingService) ScrapeAll(ctx context.Context, days int) (models.ScrapingResult, error) {
	req := models.NewScrapingRequest()
	req.All = true
	req.Days = days
	return s.Trigger(ctx, req)
}

func (s *ScrapingService) ScrapeMedia(ctx context.Context, mediaURL string, days int) (models.ScrapingResult, error) {
	req := models.NewScrapingRequest()
	req.URL = mediaURL
	req.Days = days
	return s.Trigger(ctx, req)
}

func (s *ScrapingService) Schedule(ctx context.Context) (models.ScrapingSchedule, error) {
	return getOne[models.ScrapingSchedule](ctx, s.client, scrapingSchedulePath, nil)
}

func (s *ScrapingService) UpdateSchedule(ctx context.Context, sched models.ScrapingSchedule) (models.ScrapingSchedule, error) {
	if err := models.ValidateInput(sched); err != nil {
		return models.ScrapingSchedule{}, err
	}
	return checked(apiclient.Put[models.ScrapingSchedule](ctx, s.client, scrapingSchedulePath, sched).Unwrap())
}

func (s *ScrapingService) ToggleSchedule(ctx context.Context, enabled bool) (models.ScrapingSchedule, error) {
	body := map[string]bool{"enabled": enabled}
	return checked(apiclient.Patch[models.ScrapingSchedule](ctx, s.client, scrapingSchedulePath, body).Unwrap())
}

func (s *ScrapingService) History(ctx context.Context, limit int) (models.ScrapingHistory, error) {
	return getOne[models.ScrapingHistory](ctx, s.client, scrapingHistoryPath, query("limit", limit))
}
