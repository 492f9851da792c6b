package port

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

// SessionMutator changes a session in place. Returning an error aborts the
// update and nothing is stored.
type SessionMutator func(s *domain.Session) error

// SessionStorePort keeps wizard sessions. Update calls on one session are
// serialized by the store.
type SessionStorePort interface {
	Create(ctx context.Context, session *domain.Session) error
	// Get returns domain.ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, id string, mutate SessionMutator) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
