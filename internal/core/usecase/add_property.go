package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type AddPropertyUseCase struct {
	sessions port.SessionStorePort
}

func NewAddPropertyUseCase(sessions port.SessionStorePort) *AddPropertyUseCase {
	return &AddPropertyUseCase{sessions: sessions}
}

// Execute appends a land property with empty lists and returns its local ID.
func (uc *AddPropertyUseCase) Execute(ctx context.Context, sessionID string) (*domain.Session, string, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "AddProperty",
		"session_id": sessionID,
	})

	var propertyID string
	session, err := uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		if !s.Kind.HasProperties() {
			return domain.ErrPropertiesNotAllowed
		}
		s.Draft, propertyID = s.Draft.AddProperty()
		return nil
	})
	if err != nil {
		ucLogger.Warn("Property not added", port.Fields{"error": err.Error()})
		return nil, "", err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"property_id": propertyID})
	return session, propertyID, nil
}
