package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
)

func newMember(name, sessionName string, sessionDate, createdAt time.Time) *entities.Member {
	return &entities.Member{
		ID:           uuid.New(),
		Name:         name,
		Constituency: "Chandni Chowk",
		SessionName:  sessionName,
		SessionDate:  sessionDate,
		SpeechGiven:  "On water supply",
		TimeTaken:    10,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestMemberRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	m := newMember("A Singh", "Winter2024", day(2024, 1, 15, 0), day(2024, 2, 1, 9))
	m.PartyName = "AAP"
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, "A Singh", got.Name)
	require.Equal(t, "AAP", got.PartyName)
	require.Equal(t, 10.0, got.TimeTaken)
	require.True(t, got.SessionDate.Equal(day(2024, 1, 15, 0)))
	require.Equal(t, "", got.ImageURL)

	name := "A. Singh"
	taken := 12.5
	updated, err := repo.Update(ctx, m.ID, entities.MemberPatch{Name: &name, TimeTaken: &taken})
	require.NoError(t, err)
	require.Equal(t, "A. Singh", updated.Name)
	require.Equal(t, 12.5, updated.TimeTaken)
	require.Equal(t, "Chandni Chowk", updated.Constituency)
	require.Equal(t, "On water supply", updated.SpeechGiven)
	require.Equal(t, "AAP", updated.PartyName)

	unchanged, err := repo.Update(ctx, m.ID, entities.MemberPatch{})
	require.NoError(t, err)
	require.Equal(t, "A. Singh", unchanged.Name)

	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err = repo.GetByID(ctx, m.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestMemberRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	name := "x"
	_, err = repo.Update(ctx, uuid.New(), entities.MemberPatch{Name: &name})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.Update(ctx, uuid.New(), entities.MemberPatch{})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.Delete(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestMemberRepository_ListFiltersAndOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	first := newMember("A Singh", "Winter2024", day(2024, 1, 15, 0), day(2024, 2, 1, 9))
	second := newMember("B Kumar", "Winter2024", day(2024, 1, 16, 0), day(2024, 2, 1, 10))
	late := newMember("C Devi", "Winter2024", day(2024, 1, 15, 23), day(2024, 2, 1, 11))
	other := newMember("D Rao", "Budget2024", day(2024, 3, 1, 0), day(2024, 2, 1, 12))
	for _, m := range []*entities.Member{first, second, late, other} {
		require.NoError(t, repo.Create(ctx, m))
	}

	all, err := repo.List(ctx, entities.MemberFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, other.ID, all[0].ID)
	require.Equal(t, first.ID, all[3].ID)

	d := day(2024, 1, 15, 14)
	onDay, err := repo.List(ctx, entities.MemberFilter{SessionDate: &d})
	require.NoError(t, err)
	require.Len(t, onDay, 2)
	require.Equal(t, late.ID, onDay[0].ID)
	require.Equal(t, first.ID, onDay[1].ID)

	winter, err := repo.List(ctx, entities.MemberFilter{SessionName: "Winter2024"})
	require.NoError(t, err)
	require.Len(t, winter, 3)

	d = day(2024, 1, 16, 0)
	both, err := repo.List(ctx, entities.MemberFilter{SessionName: "Winter2024", SessionDate: &d})
	require.NoError(t, err)
	require.Len(t, both, 1)
	require.Equal(t, second.ID, both[0].ID)

	none, err := repo.List(ctx, entities.MemberFilter{SessionName: "Monsoon2030"})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Len(t, none, 0)
}

func TestMemberRepository_Distinct(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newMember("A", "Winter2024", day(2024, 1, 15, 0), day(2024, 2, 1, 1))))
	require.NoError(t, repo.Create(ctx, newMember("B", "Winter2024", day(2024, 1, 15, 0), day(2024, 2, 1, 2))))
	require.NoError(t, repo.Create(ctx, newMember("C", "Budget2024", day(2024, 3, 1, 0), day(2024, 2, 1, 3))))

	names, err := repo.DistinctSessionNames(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Winter2024", "Budget2024"}, names)

	dates, err := repo.DistinctSessionDates(ctx)
	require.NoError(t, err)
	require.Len(t, dates, 2)
}

func TestMemberRepository_StoreErrorsPropagate(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()
	mustExec(t, db, "DROP TABLE members")

	_, err := repo.List(ctx, entities.MemberFilter{})
	require.Error(t, err)
	require.NotErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.DistinctSessionNames(ctx)
	require.Error(t, err)
	_, err = repo.DistinctSessionDates(ctx)
	require.Error(t, err)
	require.Error(t, repo.Create(ctx, newMember("A", "S", day(2024, 1, 1, 0), day(2024, 1, 1, 0))))
}
