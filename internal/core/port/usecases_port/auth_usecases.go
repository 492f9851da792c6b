package usecases_port

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

type LoginAdminUseCasePort interface {
	Execute(ctx context.Context, email, password string) (*domain.AdminUser, string, error)
}

type ValidateTokenUseCasePort interface {
	Execute(ctx context.Context, tokenString string) (*domain.Claims, error)
}

// EnsureAdminUseCasePort creates the bootstrap account when it does not exist yet.
type EnsureAdminUseCasePort interface {
	Execute(ctx context.Context, email, password string) error
}
