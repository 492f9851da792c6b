package usecases_port

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

// SubmitDraftUseCasePort persists the draft. After a success the session is
// gone and the returned session is nil.
type SubmitDraftUseCasePort interface {
	Execute(ctx context.Context, sessionID string) (*domain.Session, domain.Result)
}
