package service

import (
	"context"
	"fmt"

	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
)

const mediasPath = "medias/"

type MediaService struct {
	client *apiclient.Client
}

func mediaPath(id int) string {
	return fmt.Sprintf("%s%d/", mediasPath, id)
}

func (s *MediaService) List(ctx context.Context) ([]models.Media, error) {
	return getList[models.Media](ctx, s.client, mediasPath, nil)
}

func (s *MediaService) Get(ctx context.Context, id int) (models.Media, error) {
	return getOne[models.Media](ctx, s.client, mediaPath(id), nil)
}

// Create validates and normalizes the form before posting it.
func (s *MediaService) Create(ctx context.Context, in models.MediaInput) (models.Media, error) {
	in.Normalize(true)
	if err := models.ValidateInput(in); err != nil {
		return models.Media{}, err
	}
	return checked(apiclient.Post[models.Media](ctx, s.client, mediasPath, in).Unwrap())
}

func (s *MediaService) Update(ctx context.Context, id int, in models.MediaInput) (models.Media, error) {
	in.Normalize(false)
	if err := models.ValidateInput(in); err != nil {
		return models.Media{}, err
	}
	return checked(apiclient.Put[models.Media](ctx, s.client, mediaPath(id), in).Unwrap())
}

// Delete removes a media. The backend cascades to its articles, posts and tweets.
func (s *MediaService) Delete(ctx context.Context, id int) error {
	return apiclient.Delete(ctx, s.client, mediaPath(id)).Error
}
