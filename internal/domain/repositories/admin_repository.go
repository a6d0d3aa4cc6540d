package repositories

import (
	"context"

	"assembly-directory.backend/internal/domain/entities"
)

// AdminRepository persists admin accounts
type AdminRepository interface {
	Create(ctx context.Context, admin *entities.Admin) error
	GetByEmail(ctx context.Context, email string) (*entities.Admin, error)
}
