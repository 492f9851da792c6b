package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// RemoveGalleryImageUseCase removes one gallery entry. The file stays on the
// media host.
type RemoveGalleryImageUseCase struct {
	sessions port.SessionStorePort
}

func NewRemoveGalleryImageUseCase(sessions port.SessionStorePort) *RemoveGalleryImageUseCase {
	return &RemoveGalleryImageUseCase{sessions: sessions}
}

func (uc *RemoveGalleryImageUseCase) Execute(ctx context.Context, sessionID string, index int) (*domain.Session, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "RemoveGalleryImage",
		"session_id": sessionID,
		"index":      index,
	})

	session, err := uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		s.Draft = s.Draft.RemoveGalleryImage(index)
		return nil
	})
	if err != nil {
		ucLogger.Error("Failed to remove gallery image", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"gallery_size": len(session.Draft.Gallery)})
	return session, nil
}
