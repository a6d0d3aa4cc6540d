package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
	"assembly-directory.backend/internal/infrastructure/models"
	"assembly-directory.backend/pkg/utils"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, member *entities.Member) error {
	m := r.toModel(member)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	member.CreatedAt = m.CreatedAt
	member.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Member, error) {
	var m models.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List returns members matching filter, newest first
func (r *MemberRepository) List(ctx context.Context, filter entities.MemberFilter) ([]*entities.Member, error) {
	query := r.db.WithContext(ctx).Model(&models.Member{})
	if filter.SessionName != "" {
		query = query.Where("session_name = ?", filter.SessionName)
	}
	if filter.SessionDate != nil {
		start, end := utils.DayRange(*filter.SessionDate)
		query = query.Where("session_date >= ? AND session_date < ?", start, end)
	}

	var ms []models.Member
	if err := query.Order("created_at DESC").Order("id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.Member, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

// Update replaces only the fields set in patch and returns the stored record
func (r *MemberRepository) Update(ctx context.Context, id uuid.UUID, patch entities.MemberPatch) (*entities.Member, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}
	updates := patchColumns(patch)
	updates["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Member{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *MemberRepository) DistinctSessionNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Distinct("session_name").
		Pluck("session_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *MemberRepository) DistinctSessionDates(ctx context.Context) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Distinct("session_date").
		Pluck("session_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func patchColumns(p entities.MemberPatch) map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Constituency != nil {
		updates["constituency"] = *p.Constituency
	}
	if p.SessionName != nil {
		updates["session_name"] = *p.SessionName
	}
	if p.SessionDate != nil {
		updates["session_date"] = p.SessionDate.UTC()
	}
	if p.SpeechGiven != nil {
		updates["speech_given"] = *p.SpeechGiven
	}
	if p.TimeTaken != nil {
		updates["time_taken"] = *p.TimeTaken
	}
	if p.PartyName != nil {
		updates["party_name"] = *p.PartyName
	}
	if p.ImageURL != nil {
		updates["image_url"] = *p.ImageURL
	}
	if p.PartyLogoURL != nil {
		updates["party_logo_url"] = *p.PartyLogoURL
	}
	return updates
}

func (r *MemberRepository) toEntity(m *models.Member) *entities.Member {
	return &entities.Member{
		ID:           m.ID,
		Name:         m.Name,
		Constituency: m.Constituency,
		SessionName:  m.SessionName,
		SessionDate:  m.SessionDate.UTC(),
		SpeechGiven:  m.SpeechGiven,
		TimeTaken:    m.TimeTaken,
		PartyName:    m.PartyName,
		ImageURL:     m.ImageURL,
		PartyLogoURL: m.PartyLogoURL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *MemberRepository) toModel(e *entities.Member) *models.Member {
	return &models.Member{
		ID:           e.ID,
		Name:         e.Name,
		Constituency: e.Constituency,
		SessionName:  e.SessionName,
		SessionDate:  e.SessionDate.UTC(),
		SpeechGiven:  e.SpeechGiven,
		TimeTaken:    e.TimeTaken,
		PartyName:    e.PartyName,
		ImageURL:     e.ImageURL,
		PartyLogoURL: e.PartyLogoURL,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
