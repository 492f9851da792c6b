package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type UpdatePropertyUseCase struct {
	sessions port.SessionStorePort
}

func NewUpdatePropertyUseCase(sessions port.SessionStorePort) *UpdatePropertyUseCase {
	return &UpdatePropertyUseCase{sessions: sessions}
}

// Execute sets one field of one property. Room counts on land are rejected
// with domain.ErrFieldNotApplicable.
func (uc *UpdatePropertyUseCase) Execute(ctx context.Context, sessionID, propertyID, field string, value any) (*domain.Session, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "UpdateProperty",
		"session_id":  sessionID,
		"property_id": propertyID,
		"field":       field,
	})

	session, err := uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		d, err := s.Draft.UpdatePropertyByID(propertyID, field, value)
		if err != nil {
			return err
		}
		s.Draft = d
		return nil
	})
	if err != nil {
		ucLogger.Warn("Property update rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	ucLogger.Debug("Property updated", nil)
	return session, nil
}
