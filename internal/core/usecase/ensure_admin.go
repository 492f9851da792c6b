package usecase

import (
	"context"
	"fmt"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// EnsureAdminUseCase creates the bootstrap admin account on startup.
type EnsureAdminUseCase struct {
	userRepo port.UserRepositoryPort
}

func NewEnsureAdminUseCase(userRepo port.UserRepositoryPort) *EnsureAdminUseCase {
	return &EnsureAdminUseCase{userRepo: userRepo}
}

func (uc *EnsureAdminUseCase) Execute(ctx context.Context, email, password string) error {
	email = domain.NormalizeEmail(email)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "EnsureAdmin",
		"email":    email,
	})

	if email == "" || password == "" {
		return fmt.Errorf("%w: admin email and password are required", domain.ErrInvalidFieldValue)
	}

	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		ucLogger.Error("Repository failed to look up admin", err, nil)
		return err
	}
	if existing != nil {
		ucLogger.Debug("Admin account already exists", nil)
		return nil
	}

	user, err := domain.NewAdminUser(email, password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		ucLogger.Error("Failed to create admin account", err, nil)
		return err
	}

	ucLogger.Info("Admin account created", port.Fields{"user_id": user.ID.String()})
	return nil
}
