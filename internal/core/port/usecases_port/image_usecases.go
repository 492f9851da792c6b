package usecases_port

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type UploadMainImageUseCasePort interface {
	Execute(ctx context.Context, sessionID string, file port.MediaFile) (*domain.Session, domain.Result)
}

type UploadGalleryImagesUseCasePort interface {
	Execute(ctx context.Context, sessionID string, files []port.MediaFile) (*domain.Session, domain.Result)
}

type RemoveGalleryImageUseCasePort interface {
	Execute(ctx context.Context, sessionID string, index int) (*domain.Session, error)
}

type UploadMediaUseCasePort interface {
	Execute(ctx context.Context, folder string, file port.MediaFile) (domain.Image, error)
}
