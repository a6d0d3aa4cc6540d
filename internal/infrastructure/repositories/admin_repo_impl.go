package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
	"assembly-directory.backend/internal/infrastructure/models"
)

// pqUniqueViolation is the SQLSTATE postgres reports for duplicate keys
const pqUniqueViolation = "23505"

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, admin *entities.Admin) error {
	m := &models.Admin{
		ID:           admin.ID,
		Email:        normalizeEmail(admin.Email),
		PasswordHash: admin.PasswordHash,
		CreatedAt:    admin.CreatedAt,
		UpdatedAt:    admin.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	admin.Email = m.Email
	admin.CreatedAt = m.CreatedAt
	admin.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*entities.Admin, error) {
	var m models.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Admin{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}
