package usecase

import (
	"context"
	"maps"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// UpdateRecordUseCase applies a partial update. The merged document must
// still satisfy the kind's contract.
type UpdateRecordUseCase struct {
	repo      port.RecordRepositoryPort
	validator port.RecordValidatorPort
	cache     port.ListingCachePort
	events    port.RecordEventPublisherPort
}

func NewUpdateRecordUseCase(repo port.RecordRepositoryPort, validator port.RecordValidatorPort, cache port.ListingCachePort, events port.RecordEventPublisherPort) *UpdateRecordUseCase {
	return &UpdateRecordUseCase{repo: repo, validator: validator, cache: cache, events: events}
}

func (uc *UpdateRecordUseCase) Execute(ctx context.Context, kind domain.EntityKind, id string, data map[string]any) (*domain.Record, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "UpdateRecord",
		"kind":      kind,
		"record_id": id,
	})
	ucLogger.Info("Use case started", nil)

	existing, err := uc.repo.FindByID(ctx, kind, id)
	if err != nil {
		ucLogger.Warn("Record to update not found", port.Fields{"error": err.Error()})
		return nil, err
	}

	changes := withoutReserved(data)
	merged := withoutReserved(existing.Data)
	maps.Copy(merged, changes)
	if err := uc.validator.Validate(kind, merged); err != nil {
		ucLogger.Warn("Merged payload failed validation", port.Fields{"error": err.Error()})
		return nil, err
	}

	record, err := uc.repo.Update(ctx, kind, id, changes)
	if err != nil {
		ucLogger.Error("Repository failed to update record", err, nil)
		return nil, err
	}

	afterWrite(ctx, ucLogger, uc.cache, uc.events, domain.EventRecordSaved, kind, id)
	ucLogger.Info("Use case finished successfully", nil)
	return record, nil
}
