package port

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

// RecordRepositoryPort persists records in the document database.
type RecordRepositoryPort interface {
	Insert(ctx context.Context, kind domain.EntityKind, data map[string]any) (*domain.Record, error)
	// Update merges data into the stored document. Missing records yield domain.ErrRecordNotFound.
	Update(ctx context.Context, kind domain.EntityKind, id string, data map[string]any) (*domain.Record, error)
	Delete(ctx context.Context, kind domain.EntityKind, id string) error
	FindByID(ctx context.Context, kind domain.EntityKind, id string) (*domain.Record, error)
	List(ctx context.Context, kind domain.EntityKind, query domain.ListQuery) (*domain.RecordPage, error)
}

// RecordValidatorPort checks a payload against the kind's contract.
type RecordValidatorPort interface {
	Validate(kind domain.EntityKind, data map[string]any) error
}

// ListingCachePort caches listing pages per kind.
type ListingCachePort interface {
	// Get reports a miss with ok == false and a nil error.
	Get(ctx context.Context, kind domain.EntityKind, query domain.ListQuery) (page *domain.RecordPage, ok bool, err error)
	Set(ctx context.Context, kind domain.EntityKind, query domain.ListQuery, page *domain.RecordPage) error
	Invalidate(ctx context.Context, kind domain.EntityKind) error
}

// RecordEventPublisherPort announces record writes to other services.
type RecordEventPublisherPort interface {
	Publish(ctx context.Context, event domain.RecordEvent) error
}
