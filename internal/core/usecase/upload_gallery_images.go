package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// UploadGalleryImagesUseCase uploads one batch of gallery images.
type UploadGalleryImagesUseCase struct {
	sessions port.SessionStorePort
	uploader *ImageBatchUploader
}

func NewUploadGalleryImagesUseCase(sessions port.SessionStorePort, uploader *ImageBatchUploader) *UploadGalleryImagesUseCase {
	return &UploadGalleryImagesUseCase{sessions: sessions, uploader: uploader}
}

func (uc *UploadGalleryImagesUseCase) Execute(ctx context.Context, sessionID string, files []port.MediaFile) (*domain.Session, domain.Result) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "UploadGalleryImages",
		"session_id": sessionID,
		"files":      len(files),
		"policy":     uc.uploader.Policy(),
	})
	ucLogger.Info("Use case started", nil)

	if len(files) == 0 {
		return nil, domain.Failed(domain.NoticeUploadFailed, "", domain.ErrNoFiles)
	}

	var (
		batch  uint64
		folder string
	)
	bookkeeping := context.WithoutCancel(ctx)
	_, err := uc.sessions.Update(bookkeeping, sessionID, func(s *domain.Session) error {
		batch = s.BeginUpload()
		folder = uploadFolder(s.Kind, s.Draft.Title(), "gallery")
		return nil
	})
	if err != nil {
		ucLogger.Warn("Cannot start upload", port.Fields{"error": err.Error()})
		return nil, domain.Failed(domain.NoticeUploadFailed, "", err)
	}

	images, uploadErr := uc.uploader.Upload(ctx, folder, files)

	added := 0
	session, err := uc.sessions.Update(bookkeeping, sessionID, func(s *domain.Session) error {
		s.EndUpload()
		if len(images) > 0 {
			s.Draft, added = s.Draft.MergeGalleryImages(batch, images)
		}
		return nil
	})
	if err != nil {
		ucLogger.Error("Failed to record upload outcome", err, nil)
		return nil, domain.Failed(domain.NoticeUploadFailed, "", err)
	}

	if uploadErr != nil {
		ucLogger.Error("Gallery batch had failed uploads", uploadErr, port.Fields{"batch": batch, "added": added})
		return session, domain.Failed(domain.NoticeUploadFailed, "", uploadErr)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"batch": batch, "added": added})
	return session, domain.Succeeded(domain.NoticeUploaded, "")
}
