package port

import (
	"context"
	"time"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

type TokenServicePort interface {
	GenerateToken(ctx context.Context, user *domain.AdminUser, ttl time.Duration) (string, error)
	// ValidateToken returns domain.ErrTokenInvalid for any malformed, forged or expired token.
	ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error)
}
