package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// RemovePropertyUseCase deletes a property. Uploads still in flight for it
// are discarded when they resolve.
type RemovePropertyUseCase struct {
	sessions port.SessionStorePort
}

func NewRemovePropertyUseCase(sessions port.SessionStorePort) *RemovePropertyUseCase {
	return &RemovePropertyUseCase{sessions: sessions}
}

func (uc *RemovePropertyUseCase) Execute(ctx context.Context, sessionID, propertyID string) (*domain.Session, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "RemoveProperty",
		"session_id":  sessionID,
		"property_id": propertyID,
	})

	session, err := uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		d, err := s.Draft.RemovePropertyByID(propertyID)
		if err != nil {
			return err
		}
		s.Draft = d
		return nil
	})
	if err != nil {
		ucLogger.Warn("Property not removed", port.Fields{"error": err.Error()})
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return session, nil
}
