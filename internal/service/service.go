// Package service exposes typed operations over the backend API, one type per
// resource. Every decoded record is validated before it is returned.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

// Services groups every resource service over one client.
type Services struct {
	Media          *MediaService
	Articles       *ArticleService
	Classification *ClassificationService
	Social         *SocialService
	Audience       *AudienceService
	Ranking        *RankingService
	Moderation     *ModerationService
	Scraping       *ScrapingService
	Stats          *StatsService
}

func New(client *apiclient.Client) *Services {
	return &Services{
		Media:          &MediaService{client: client},
		Articles:       &ArticleService{client: client},
		Classification: &ClassificationService{client: client},
		Social:         &SocialService{client: client},
		Audience:       &AudienceService{client: client},
		Ranking:        &RankingService{client: client},
		Moderation:     &ModerationService{client: client},
		Scraping:       &ScrapingService{client: client},
		Stats:          &StatsService{client: client},
	}
}

// list decodes either a bare JSON array or a paginated {"results": [...]} page.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var page struct {
			Results []T `json:"results"`
		}
		if err := json.Unmarshal(b, &page); err != nil {
			return err
		}
		*l = page.Results
		return nil
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

func getList[T any](ctx context.Context, c *apiclient.Client, path string, q url.Values) ([]T, error) {
	items, err := apiclient.Get[list[T]](ctx, c, path, q).Unwrap()
	if err != nil {
		return nil, err
	}
	if err = models.ValidateRecords(items); err != nil {
		return nil, err
	}
	if items == nil {
		return []T{}, nil
	}
	return items, nil
}

func getOne[T any](ctx context.Context, c *apiclient.Client, path string, q url.Values) (T, error) {
	rec, err := apiclient.Get[T](ctx, c, path, q).Unwrap()
	if err != nil {
		return rec, err
	}
	if err = models.ValidateRecord(rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// checked validates the record a write or non-GET call returned.
func checked[T any](rec T, err error) (T, error) {
	if err != nil {
		return rec, err
	}
	if err = models.ValidateRecord(rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// query builds url.Values from alternating key/value pairs, skipping zero
// ints and empty strings.
func query(kv ...any) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		switch v := kv[i+1].(type) {
		case int:
			if v != 0 {
				q.Set(key, strconv.Itoa(v))
			}
		case string:
			if v != "" {
				q.Set(key, v)
			}
		case bool:
			q.Set(key, strconv.FormatBool(v))
		}
	}
	return q
}
