package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type GetRecordUseCase struct {
	repo port.RecordRepositoryPort
}

func NewGetRecordUseCase(repo port.RecordRepositoryPort) *GetRecordUseCase {
	return &GetRecordUseCase{repo: repo}
}

func (uc *GetRecordUseCase) Execute(ctx context.Context, kind domain.EntityKind, id string) (*domain.Record, error) {
	record, err := uc.repo.FindByID(ctx, kind, id)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Record lookup failed", port.Fields{
			"use_case":  "GetRecord",
			"kind":      kind,
			"record_id": id,
			"error":     err.Error(),
		})
		return nil, err
	}
	return record, nil
}
