package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type CreateRecordUseCase struct {
	repo      port.RecordRepositoryPort
	validator port.RecordValidatorPort
	cache     port.ListingCachePort
	events    port.RecordEventPublisherPort
}

// NewCreateRecordUseCase accepts a nil cache or publisher when those are disabled.
func NewCreateRecordUseCase(repo port.RecordRepositoryPort, validator port.RecordValidatorPort, cache port.ListingCachePort, events port.RecordEventPublisherPort) *CreateRecordUseCase {
	return &CreateRecordUseCase{repo: repo, validator: validator, cache: cache, events: events}
}

func (uc *CreateRecordUseCase) Execute(ctx context.Context, kind domain.EntityKind, data map[string]any) (*domain.Record, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CreateRecord",
		"kind":     kind,
	})
	ucLogger.Info("Use case started", nil)

	data = withoutReserved(data)
	if err := uc.validator.Validate(kind, data); err != nil {
		ucLogger.Warn("Payload failed validation", port.Fields{"error": err.Error()})
		return nil, err
	}

	record, err := uc.repo.Insert(ctx, kind, data)
	if err != nil {
		ucLogger.Error("Repository failed to insert record", err, nil)
		return nil, err
	}

	afterWrite(ctx, ucLogger, uc.cache, uc.events, domain.EventRecordSaved, kind, record.ID)
	ucLogger.Info("Use case finished successfully", port.Fields{"record_id": record.ID})
	return record, nil
}

// withoutReserved drops keys the server assigns itself.
func withoutReserved(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		switch k {
		case "_id", "id", "createdAt", "updatedAt", "hijriDate":
			continue
		}
		out[k] = v
	}
	return out
}
