package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type GetSessionUseCase struct {
	sessions port.SessionStorePort
}

func NewGetSessionUseCase(sessions port.SessionStorePort) *GetSessionUseCase {
	return &GetSessionUseCase{sessions: sessions}
}

func (uc *GetSessionUseCase) Execute(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Session lookup failed", port.Fields{
			"use_case":   "GetSession",
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, err
	}
	return session, nil
}
