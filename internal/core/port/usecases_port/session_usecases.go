package usecases_port

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

type StartCreateSessionUseCasePort interface {
	Execute(ctx context.Context, kind domain.EntityKind) (*domain.Session, error)
}

// StartEditSessionUseCasePort hydrates a draft from a stored record. On
// failure the session is nil and the Result redirects to the listing.
type StartEditSessionUseCasePort interface {
	Execute(ctx context.Context, kind domain.EntityKind, recordID string) (*domain.Session, domain.Result)
}

type GetSessionUseCasePort interface {
	Execute(ctx context.Context, sessionID string) (*domain.Session, error)
}

type CancelSessionUseCasePort interface {
	Execute(ctx context.Context, sessionID string) error
}

type SetDraftFieldsUseCasePort interface {
	Execute(ctx context.Context, sessionID string, fields map[string]any) (*domain.Session, error)
}

type NavigateStepUseCasePort interface {
	Execute(ctx context.Context, sessionID string, direction domain.StepDirection) (*domain.Session, error)
}
