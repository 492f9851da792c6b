package port

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

// UserRepositoryPort stores back-office accounts.
type UserRepositoryPort interface {
	Create(ctx context.Context, user *domain.AdminUser) error
	// FindByEmail returns (nil, nil) when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
}
