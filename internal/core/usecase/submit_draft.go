package usecase

import (
	"context"
	"errors"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// SubmitDraftUseCase sends the draft to the persistence API: POST for a new
// entity, PATCH for an edited one. There is no retry; a failure leaves the
// draft untouched and submission enabled again.
type SubmitDraftUseCase struct {
	sessions port.SessionStorePort
	records  port.RecordGatewayPort
}

func NewSubmitDraftUseCase(sessions port.SessionStorePort, records port.RecordGatewayPort) *SubmitDraftUseCase {
	return &SubmitDraftUseCase{sessions: sessions, records: records}
}

func (uc *SubmitDraftUseCase) Execute(ctx context.Context, sessionID string) (*domain.Session, domain.Result) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "SubmitDraft",
		"session_id": sessionID,
	})
	ucLogger.Info("Use case started", nil)

	// session bookkeeping outlives the request so an abandoned submit never
	// leaves the draft locked
	bookkeeping := context.WithoutCancel(ctx)

	var snapshot domain.Session
	_, err := uc.sessions.Update(bookkeeping, sessionID, func(s *domain.Session) error {
		if err := s.CanSubmit(); err != nil {
			return err
		}
		s.Submitting = true
		snapshot = *s
		return nil
	})
	if err != nil {
		return uc.rejected(bookkeeping, sessionID, err, ucLogger)
	}

	kind := snapshot.Kind
	ucLogger = ucLogger.WithFields(port.Fields{"kind": kind, "mode": snapshot.Mode})

	recordID := snapshot.RecordID
	if snapshot.Mode == domain.ModeEdit {
		err = uc.records.Update(ctx, kind, recordID, snapshot.Draft)
	} else {
		recordID, err = uc.records.Create(ctx, kind, snapshot.Draft)
	}

	if err != nil {
		ucLogger.Error("Persistence API rejected the draft", err, nil)
		session, resetErr := uc.sessions.Update(bookkeeping, sessionID, func(s *domain.Session) error {
			s.Submitting = false
			return nil
		})
		if resetErr != nil {
			ucLogger.Error("Failed to re-enable submission", resetErr, nil)
		}
		return session, domain.Failed(domain.NoticeKey(kind, domain.NoticeSaveFailed), "", err)
	}

	if err := uc.sessions.Delete(bookkeeping, sessionID); err != nil {
		// the record is saved; a stale session only expires later
		ucLogger.Warn("Failed to discard submitted session", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"record_id": recordID})
	return nil, domain.Succeeded(domain.NoticeKey(kind, domain.NoticeSaved), kind.ListingRoute())
}

func (uc *SubmitDraftUseCase) rejected(ctx context.Context, sessionID string, err error, ucLogger port.LoggerPort) (*domain.Session, domain.Result) {
	notice := domain.NoticeSaveFailed
	switch {
	case errors.Is(err, domain.ErrUploadsPending):
		notice = domain.NoticeNotReady
	case errors.Is(err, domain.ErrSubmissionInProgress):
		notice = domain.NoticeBusy
	}
	ucLogger.Warn("Submission rejected", port.Fields{"error": err.Error()})

	session, getErr := uc.sessions.Get(ctx, sessionID)
	if getErr != nil {
		return nil, domain.Failed("common."+domain.NoticeSaveFailed, "", err)
	}
	if notice == domain.NoticeSaveFailed {
		notice = domain.NoticeKey(session.Kind, notice)
	}
	return session, domain.Failed(notice, "", err)
}
