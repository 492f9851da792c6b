package usecase

import (
	"context"
	"errors"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// UploadPropertyImagesUseCase uploads a batch into "{title}/property-{index}".
// The target is tracked by the property's local ID, so removing or reordering
// properties while the batch is in flight never misroutes it.
type UploadPropertyImagesUseCase struct {
	sessions port.SessionStorePort
	uploader *ImageBatchUploader
}

func NewUploadPropertyImagesUseCase(sessions port.SessionStorePort, uploader *ImageBatchUploader) *UploadPropertyImagesUseCase {
	return &UploadPropertyImagesUseCase{sessions: sessions, uploader: uploader}
}

func (uc *UploadPropertyImagesUseCase) Execute(ctx context.Context, sessionID, propertyID string, files []port.MediaFile) (*domain.Session, domain.Result) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "UploadPropertyImages",
		"session_id":  sessionID,
		"property_id": propertyID,
		"files":       len(files),
		"policy":      uc.uploader.Policy(),
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
		index := s.Draft.PropertyIndex(propertyID)
		if index < 0 {
			return domain.ErrPropertyNotFound
		}
		batch = s.BeginUpload()
		folder = propertyFolder(s.Kind, s.Draft.Title(), index)
		return nil
	})
	if err != nil {
		ucLogger.Warn("Cannot start upload", port.Fields{"error": err.Error()})
		return nil, domain.Failed(domain.NoticeUploadFailed, "", err)
	}

	images, uploadErr := uc.uploader.Upload(ctx, folder, files)

	var (
		added    int
		mergeErr error
	)
	session, err := uc.sessions.Update(bookkeeping, sessionID, func(s *domain.Session) error {
		s.EndUpload()
		mergeErr = nil
		if len(images) == 0 {
			return nil
		}
		d, n, err := s.Draft.MergePropertyImages(propertyID, batch, images)
		if err != nil {
			mergeErr = err
			return nil
		}
		s.Draft, added = d, n
		return nil
	})
	if err != nil {
		ucLogger.Error("Failed to record upload outcome", err, nil)
		return nil, domain.Failed(domain.NoticeUploadFailed, "", err)
	}

	if errors.Is(mergeErr, domain.ErrPropertyNotFound) {
		ucLogger.Warn("Property was removed while its images uploaded, batch discarded", port.Fields{"batch": batch})
		return session, domain.Failed(domain.NoticeUploadFailed, "", mergeErr)
	}
	if uploadErr != nil {
		ucLogger.Error("Property image batch had failed uploads", uploadErr, port.Fields{"batch": batch, "added": added})
		return session, domain.Failed(domain.NoticeUploadFailed, "", uploadErr)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"batch": batch, "added": added, "folder": folder})
	return session, domain.Succeeded(domain.NoticeUploaded, "")
}
