package usecases_port

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// AddPropertyUseCasePort returns the session and the new property's ID.
type AddPropertyUseCasePort interface {
	Execute(ctx context.Context, sessionID string) (*domain.Session, string, error)
}

type RemovePropertyUseCasePort interface {
	Execute(ctx context.Context, sessionID, propertyID string) (*domain.Session, error)
}

type UpdatePropertyUseCasePort interface {
	Execute(ctx context.Context, sessionID, propertyID, field string, value any) (*domain.Session, error)
}

type UploadPropertyImagesUseCasePort interface {
	Execute(ctx context.Context, sessionID, propertyID string, files []port.MediaFile) (*domain.Session, domain.Result)
}

type RemovePropertyImageUseCasePort interface {
	Execute(ctx context.Context, sessionID, propertyID string, index int) (*domain.Session, error)
}
