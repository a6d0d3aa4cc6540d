package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"assembly-directory.backend/internal/domain/entities"
)

// MemberRepository persists members. Lookups of unknown ids return domainerrors.ErrNotFound.
type MemberRepository interface {
	Create(ctx context.Context, member *entities.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Member, error)
	List(ctx context.Context, filter entities.MemberFilter) ([]*entities.Member, error)
	Update(ctx context.Context, id uuid.UUID, patch entities.MemberPatch) (*entities.Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DistinctSessionNames(ctx context.Context) ([]string, error)
	DistinctSessionDates(ctx context.Context) ([]time.Time, error)
}
