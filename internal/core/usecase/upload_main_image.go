package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// UploadMainImageUseCase shows a local preview right away and commits the
// remote image only once the upload resolved. A failed upload keeps the
// previously committed image.
type UploadMainImageUseCase struct {
	sessions port.SessionStorePort
	gateway  port.UploadGatewayPort
}

func NewUploadMainImageUseCase(sessions port.SessionStorePort, gateway port.UploadGatewayPort) *UploadMainImageUseCase {
	return &UploadMainImageUseCase{sessions: sessions, gateway: gateway}
}

func (uc *UploadMainImageUseCase) Execute(ctx context.Context, sessionID string, file port.MediaFile) (*domain.Session, domain.Result) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "UploadMainImage",
		"session_id": sessionID,
		"file":       file.Name,
	})
	ucLogger.Info("Use case started", nil)

	if len(file.Content) == 0 {
		return uc.current(ctx, sessionID), domain.Failed(domain.NoticeUploadFailed, "", domain.ErrInvalidMediaFile)
	}

	var (
		batch  uint64
		folder string
	)
	bookkeeping := context.WithoutCancel(ctx)
	_, err := uc.sessions.Update(bookkeeping, sessionID, func(s *domain.Session) error {
		batch = s.BeginUpload()
		folder = uploadFolder(s.Kind, s.Draft.Title(), "")
		s.Draft = s.Draft.SetMainImagePreview(file.Name)
		return nil
	})
	if err != nil {
		ucLogger.Warn("Cannot start upload", port.Fields{"error": err.Error()})
		return nil, domain.Failed(domain.NoticeUploadFailed, "", err)
	}

	img, uploadErr := uc.gateway.Upload(ctx, folder, file)

	session, err := uc.sessions.Update(bookkeeping, sessionID, func(s *domain.Session) error {
		s.EndUpload()
		// the preview belongs to the latest selection
		latest := s.NextBatch == batch
		if uploadErr != nil {
			if latest {
				s.Draft = s.Draft.ClearMainImagePreview()
			}
			return nil
		}
		img.Batch = batch
		// a later selection that already resolved wins
		if s.Draft.MainImage.Image.URL != "" && s.Draft.MainImage.Image.Batch > batch {
			return nil
		}
		preview := s.Draft.MainImage.Preview
		s.Draft = s.Draft.SetMainImage(img)
		if !latest {
			s.Draft = s.Draft.SetMainImagePreview(preview)
		}
		return nil
	})
	if err != nil {
		ucLogger.Error("Failed to record upload outcome", err, nil)
		return nil, domain.Failed(domain.NoticeUploadFailed, "", err)
	}

	if uploadErr != nil {
		ucLogger.Error("Upload gateway rejected the main image", uploadErr, port.Fields{"folder": folder})
		return session, domain.Failed(domain.NoticeUploadFailed, "", uploadErr)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"url": img.URL})
	return session, domain.Succeeded(domain.NoticeUploaded, "")
}

func (uc *UploadMainImageUseCase) current(ctx context.Context, sessionID string) *domain.Session {
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil
	}
	return s
}
