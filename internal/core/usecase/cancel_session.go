package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// CancelSessionUseCase drops a draft without saving it.
type CancelSessionUseCase struct {
	sessions port.SessionStorePort
}

func NewCancelSessionUseCase(sessions port.SessionStorePort) *CancelSessionUseCase {
	return &CancelSessionUseCase{sessions: sessions}
}

func (uc *CancelSessionUseCase) Execute(ctx context.Context, sessionID string) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "CancelSession",
		"session_id": sessionID,
	})
	ucLogger.Info("Use case started", nil)

	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		ucLogger.Error("Failed to delete session", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
