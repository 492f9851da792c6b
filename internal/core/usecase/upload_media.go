package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// UploadMediaUseCase backs the standalone upload endpoint: one file, one folder.
type UploadMediaUseCase struct {
	gateway port.UploadGatewayPort
}

func NewUploadMediaUseCase(gateway port.UploadGatewayPort) *UploadMediaUseCase {
	return &UploadMediaUseCase{gateway: gateway}
}

func (uc *UploadMediaUseCase) Execute(ctx context.Context, folder string, file port.MediaFile) (domain.Image, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "UploadMedia",
		"folder":   folder,
		"file":     file.Name,
	})
	ucLogger.Info("Use case started", nil)

	if err := checkImage(file); err != nil {
		ucLogger.Warn("Rejected media file", port.Fields{"error": err.Error()})
		return domain.Image{}, err
	}

	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = "uploads"
	}

	img, err := uc.gateway.Upload(ctx, folder, file)
	if err != nil {
		ucLogger.Error("Upload gateway failed", err, nil)
		return domain.Image{}, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"url": img.URL})
	return img, nil
}

// checkImage sniffs the content; the declared content type is not trusted.
func checkImage(file port.MediaFile) error {
	if len(file.Content) == 0 {
		return fmt.Errorf("%w: empty file", domain.ErrInvalidMediaFile)
	}
	if ct := http.DetectContentType(file.Content); !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%w: %s is %s", domain.ErrInvalidMediaFile, file.Name, ct)
	}
	return nil
}
