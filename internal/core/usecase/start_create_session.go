package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type StartCreateSessionUseCase struct {
	sessions port.SessionStorePort
}

func NewStartCreateSessionUseCase(sessions port.SessionStorePort) *StartCreateSessionUseCase {
	return &StartCreateSessionUseCase{sessions: sessions}
}

func (uc *StartCreateSessionUseCase) Execute(ctx context.Context, kind domain.EntityKind) (*domain.Session, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "StartCreateSession",
		"kind":     kind,
	})
	ucLogger.Info("Use case started", nil)

	if !kind.Valid() {
		ucLogger.Warn("Unknown entity kind", nil)
		return nil, domain.ErrUnknownEntityKind
	}

	session := domain.NewCreateSession(kind)
	if err := uc.sessions.Create(ctx, session); err != nil {
		ucLogger.Error("Failed to store new session", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"session_id": session.ID})
	return session, nil
}
