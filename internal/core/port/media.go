package port

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

// MediaFile is one file picked by the admin, already read into memory.
type MediaFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// UploadGatewayPort stores images on the media host.
type UploadGatewayPort interface {
	// Upload stores the file under folder and returns the committed image.
	Upload(ctx context.Context, folder string, file MediaFile) (domain.Image, error)
	Delete(ctx context.Context, publicID string) error
}
