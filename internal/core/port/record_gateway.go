package port

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

// RecordGatewayPort is the wizard's view of the persistence API.
type RecordGatewayPort interface {
	// Fetch loads a record and maps it to a draft. A missing record yields domain.ErrRecordNotFound.
	Fetch(ctx context.Context, kind domain.EntityKind, id string) (domain.Draft, error)
	// Create returns the id assigned by the persistence API.
	Create(ctx context.Context, kind domain.EntityKind, draft domain.Draft) (string, error)
	Update(ctx context.Context, kind domain.EntityKind, id string, draft domain.Draft) error
}
