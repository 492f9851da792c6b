package contextkeys

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

type claimsKeyType struct{}
type tokenKeyType struct{}

var (
	claimsKey = claimsKeyType{}
	tokenKey  = tokenKeyType{}
)

// ContextWithClaims stores the authenticated admin and the raw token, which
// outbound clients forward to the persistence API.
func ContextWithClaims(ctx context.Context, claims *domain.Claims, token string) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	return context.WithValue(ctx, tokenKey, token)
}

func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
