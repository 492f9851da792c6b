package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "admin"

// AdminUser is a back-office account.
type AdminUser struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Claims is what the access token carries.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// NewAdminUser hashes the password with bcrypt.
func NewAdminUser(email, password string) (*AdminUser, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminUser{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		PasswordHash: string(hashed),
		Role:         RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (u *AdminUser) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
