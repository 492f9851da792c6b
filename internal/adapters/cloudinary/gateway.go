package cloudinary_adapter

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// BaseURL overrides the API host, e.g. "https://api.cloudinary.com".
	BaseURL string
	Timeout time.Duration
}

// Gateway uploads images with Cloudinary's signed upload API.
type Gateway struct {
	cld *cloudinary.Cloudinary
}

func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary cloud name, api key and api secret are required")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	if cfg.BaseURL != "" {
		cld.Config.API.UploadPrefix = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		seconds := int64(cfg.Timeout / time.Second)
		cld.Config.API.Timeout = seconds
		cld.Config.API.UploadTimeout = seconds
	}
	// the upload API keeps its own copy of the configuration
	cld.Upload.Config = cld.Config
	return &Gateway{cld: cld}, nil
}

func (g *Gateway) Upload(ctx context.Context, folder string, file port.MediaFile) (domain.Image, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CloudinaryGateway",
		"method":    "Upload",
		"folder":    folder,
		"file":      file.Name,
	})

	res, err := g.cld.Upload.Upload(ctx, bytes.NewReader(file.Content), uploader.UploadParams{Folder: folder})
	if err != nil {
		logger.Error("Upload failed", err, nil)
		return domain.Image{}, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	if res.Error.Message != "" {
		logger.Error("Cloudinary rejected the upload", nil, port.Fields{"reason": res.Error.Message})
		return domain.Image{}, fmt.Errorf("%w: cloudinary: %s", domain.ErrUploadFailed, res.Error.Message)
	}
	if res.SecureURL == "" {
		return domain.Image{}, fmt.Errorf("%w: response has no secure_url", domain.ErrUploadFailed)
	}

	logger.Debug("Image uploaded", port.Fields{"public_id": res.PublicID})
	return domain.Image{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete removes an image. Deleting an unknown image is not an error.
func (g *Gateway) Delete(ctx context.Context, publicID string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CloudinaryGateway",
		"method":    "Delete",
		"public_id": publicID,
	})

	res, err := g.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		logger.Error("Destroy failed", err, nil)
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("%w: cloudinary: %s", domain.ErrUploadFailed, res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("%w: destroy returned %q", domain.ErrUploadFailed, res.Result)
	}
	return nil
}
