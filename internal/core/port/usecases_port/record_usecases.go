package usecases_port

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

type CreateRecordUseCasePort interface {
	Execute(ctx context.Context, kind domain.EntityKind, data map[string]any) (*domain.Record, error)
}

type UpdateRecordUseCasePort interface {
	Execute(ctx context.Context, kind domain.EntityKind, id string, data map[string]any) (*domain.Record, error)
}

type DeleteRecordUseCasePort interface {
	Execute(ctx context.Context, kind domain.EntityKind, id string) error
}

type GetRecordUseCasePort interface {
	Execute(ctx context.Context, kind domain.EntityKind, id string) (*domain.Record, error)
}

type ListRecordsUseCasePort interface {
	Execute(ctx context.Context, kind domain.EntityKind, query domain.ListQuery) (*domain.RecordPage, error)
}

// InvalidateListingsUseCasePort reacts to record events from any instance.
type InvalidateListingsUseCasePort interface {
	Execute(ctx context.Context, event domain.RecordEvent) error
}
