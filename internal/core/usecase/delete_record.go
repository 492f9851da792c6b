package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type DeleteRecordUseCase struct {
	repo   port.RecordRepositoryPort
	cache  port.ListingCachePort
	events port.RecordEventPublisherPort
}

func NewDeleteRecordUseCase(repo port.RecordRepositoryPort, cache port.ListingCachePort, events port.RecordEventPublisherPort) *DeleteRecordUseCase {
	return &DeleteRecordUseCase{repo: repo, cache: cache, events: events}
}

func (uc *DeleteRecordUseCase) Execute(ctx context.Context, kind domain.EntityKind, id string) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "DeleteRecord",
		"kind":      kind,
		"record_id": id,
	})
	ucLogger.Info("Use case started", nil)

	if err := uc.repo.Delete(ctx, kind, id); err != nil {
		ucLogger.Error("Repository failed to delete record", err, nil)
		return err
	}

	afterWrite(ctx, ucLogger, uc.cache, uc.events, domain.EventRecordDeleted, kind, id)
	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
