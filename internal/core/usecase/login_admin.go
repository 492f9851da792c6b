package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type LoginAdminUseCase struct {
	userRepo       port.UserRepositoryPort
	tokenSvc       port.TokenServicePort
	accessTokenTTL time.Duration
}

func NewLoginAdminUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort, accessTokenTTL time.Duration) *LoginAdminUseCase {
	return &LoginAdminUseCase{
		userRepo:       userRepo,
		tokenSvc:       tokenSvc,
		accessTokenTTL: accessTokenTTL,
	}
}

func (uc *LoginAdminUseCase) Execute(ctx context.Context, email, password string) (*domain.AdminUser, string, error) {
	email = domain.NormalizeEmail(email)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "LoginAdmin",
		"email":    email,
	})
	ucLogger.Info("Use case started", nil)

	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		ucLogger.Error("Repository failed to find user by email", err, nil)
		return nil, "", fmt.Errorf("internal server error: %w", err)
	}
	// unknown email and wrong password look the same to the caller
	if user == nil || !user.CheckPassword(password) {
		ucLogger.Warn("Login failed: invalid credentials", nil)
		return nil, "", domain.ErrInvalidCredentials
	}
	if user.Role != domain.RoleAdmin {
		ucLogger.Warn("Login refused: account is not an admin", nil)
		return nil, "", domain.ErrForbidden
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user, uc.accessTokenTTL)
	if err != nil {
		ucLogger.Error("Failed to generate token after successful login", err, nil)
		return nil, "", err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"user_id": user.ID.String()})
	return user, token, nil
}
