package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// SetDraftFieldsUseCase writes the scalar fields of the basic info step.
type SetDraftFieldsUseCase struct {
	sessions port.SessionStorePort
}

func NewSetDraftFieldsUseCase(sessions port.SessionStorePort) *SetDraftFieldsUseCase {
	return &SetDraftFieldsUseCase{sessions: sessions}
}

func (uc *SetDraftFieldsUseCase) Execute(ctx context.Context, sessionID string, fields map[string]any) (*domain.Session, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "SetDraftFields",
		"session_id": sessionID,
	})
	ucLogger.Info("Use case started", port.Fields{"field_count": len(fields)})

	names := make([]string, 0, len(fields))
	for name, value := range fields {
		switch {
		case strings.TrimSpace(name) == "":
			return nil, fmt.Errorf("%w: empty field name", domain.ErrInvalidFieldValue)
		case domain.IsReservedField(name):
			return nil, fmt.Errorf("%w: %q", domain.ErrReservedField, name)
		case !domain.IsScalarValue(value):
			return nil, fmt.Errorf("%w: %q must be a scalar", domain.ErrInvalidFieldValue, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	session, err := uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		for _, name := range names {
			s.Draft = s.Draft.SetField(name, fields[name])
		}
		return nil
	})
	if err != nil {
		ucLogger.Error("Failed to update draft fields", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return session, nil
}
