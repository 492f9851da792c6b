package usecase

import (
	"context"
	"errors"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// StartEditSessionUseCase hydrates a draft from the persistence API.
type StartEditSessionUseCase struct {
	sessions port.SessionStorePort
	records  port.RecordGatewayPort
}

func NewStartEditSessionUseCase(sessions port.SessionStorePort, records port.RecordGatewayPort) *StartEditSessionUseCase {
	return &StartEditSessionUseCase{sessions: sessions, records: records}
}

func (uc *StartEditSessionUseCase) Execute(ctx context.Context, kind domain.EntityKind, recordID string) (*domain.Session, domain.Result) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "StartEditSession",
		"kind":      kind,
		"record_id": recordID,
	})
	ucLogger.Info("Use case started", nil)

	if !kind.Valid() {
		return nil, domain.Failed("common.loadFailed", "/admin", domain.ErrUnknownEntityKind)
	}
	failed := func(err error) (*domain.Session, domain.Result) {
		return nil, domain.Failed(domain.NoticeKey(kind, domain.NoticeLoadFailed), kind.ListingRoute(), err)
	}

	if recordID == "" {
		return failed(domain.ErrRecordNotFound)
	}

	draft, err := uc.records.Fetch(ctx, kind, recordID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ucLogger.Warn("Record to edit does not exist", nil)
		} else {
			ucLogger.Error("Failed to load record for editing", err, nil)
		}
		return failed(err)
	}

	session := domain.NewEditSession(kind, recordID, draft)
	if err := uc.sessions.Create(ctx, session); err != nil {
		ucLogger.Error("Failed to store edit session", err, nil)
		return failed(err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"session_id": session.ID})
	return session, domain.Succeeded("", "")
}
