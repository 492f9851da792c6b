package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type ValidateTokenUseCase struct {
	tokenSvc port.TokenServicePort
}

func NewValidateTokenUseCase(tokenSvc port.TokenServicePort) *ValidateTokenUseCase {
	return &ValidateTokenUseCase{tokenSvc: tokenSvc}
}

func (uc *ValidateTokenUseCase) Execute(ctx context.Context, tokenString string) (*domain.Claims, error) {
	if tokenString == "" {
		return nil, domain.ErrTokenInvalid
	}
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Debug("Token rejected", port.Fields{
			"use_case": "ValidateToken",
			"error":    err.Error(),
		})
		return nil, err
	}
	return claims, nil
}
