package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type RemovePropertyImageUseCase struct {
	sessions port.SessionStorePort
}

func NewRemovePropertyImageUseCase(sessions port.SessionStorePort) *RemovePropertyImageUseCase {
	return &RemovePropertyImageUseCase{sessions: sessions}
}

func (uc *RemovePropertyImageUseCase) Execute(ctx context.Context, sessionID, propertyID string, index int) (*domain.Session, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "RemovePropertyImage",
		"session_id":  sessionID,
		"property_id": propertyID,
		"index":       index,
	})

	session, err := uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		d, err := s.Draft.RemovePropertyImage(propertyID, index)
		if err != nil {
			return err
		}
		s.Draft = d
		return nil
	})
	if err != nil {
		ucLogger.Warn("Property image not removed", port.Fields{"error": err.Error()})
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return session, nil
}
