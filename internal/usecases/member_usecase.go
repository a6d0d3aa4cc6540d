package usecases

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
	"assembly-directory.backend/internal/domain/repositories"
	"assembly-directory.backend/pkg/logger"
	"assembly-directory.backend/pkg/utils"
)

const memberNotFoundMessage = "Member not found"

// Attachments are the optional files sent along with a create or update
type Attachments struct {
	Image     *entities.FileUpload
	PartyLogo *entities.FileUpload
}

// MemberUsecase implements the member directory operations
type MemberUsecase struct {
	repo  repositories.MemberRepository
	files repositories.FileStore
}

// NewMemberUsecase creates a new member usecase
func NewMemberUsecase(repo repositories.MemberRepository, files repositories.FileStore) *MemberUsecase {
	return &MemberUsecase{
		repo:  repo,
		files: files,
	}
}

// List returns members matching the query, newest first
func (u *MemberUsecase) List(ctx context.Context, query entities.MemberQuery) ([]*entities.Member, error) {
	filter := entities.MemberFilter{SessionName: strings.TrimSpace(query.SessionName)}
	if raw := strings.TrimSpace(query.SessionDate); raw != "" {
		day, err := utils.ParseDate(raw)
		if err != nil {
			return nil, domainerrors.BadRequest("sessionDate must be a valid date")
		}
		filter.SessionDate = &day
	}

	items, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entities.Member{}
	}
	return items, nil
}

// FilterOptions returns the distinct session names (ascending) and ISO days (descending)
func (u *MemberUsecase) FilterOptions(ctx context.Context) (*entities.FilterOptions, error) {
	names, err := u.repo.DistinctSessionNames(ctx)
	if err != nil {
		return nil, err
	}
	dates, err := u.repo.DistinctSessionDates(ctx)
	if err != nil {
		return nil, err
	}

	return &entities.FilterOptions{
		SessionNames: uniqueSorted(names, false),
		SessionDates: uniqueSorted(formatDays(dates), true),
	}, nil
}

// Get returns a single member. Malformed ids are reported as not found.
func (u *MemberUsecase) Get(ctx context.Context, rawID string) (*entities.Member, error) {
	id, ok := utils.ParseID(rawID)
	if !ok {
		return nil, domainerrors.NotFound(memberNotFoundMessage)
	}
	member, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return member, nil
}

// Create validates every field before storing files or writing the record
func (u *MemberUsecase) Create(ctx context.Context, fields entities.MemberFields, files Attachments) (*entities.Member, error) {
	member, err := newMemberFromFields(fields)
	if err != nil {
		return nil, err
	}

	stored := u.storeAttachments(ctx, files)
	if stored.image != "" {
		member.ImageURL = stored.image
	}
	if stored.logo != "" {
		member.PartyLogoURL = stored.logo
	}

	now := time.Now().UTC()
	member.ID = utils.GenerateUUIDv7()
	member.CreatedAt = now
	member.UpdatedAt = now

	if err := u.repo.Create(ctx, member); err != nil {
		u.removeFiles(ctx, stored.image, stored.logo)
		return nil, err
	}
	return member, nil
}

// Update replaces only the supplied fields. Replaced local attachments are removed afterwards.
func (u *MemberUsecase) Update(ctx context.Context, rawID string, fields entities.MemberFields, files Attachments) (*entities.Member, error) {
	id, ok := utils.ParseID(rawID)
	if !ok {
		return nil, domainerrors.NotFound(memberNotFoundMessage)
	}

	patch, err := newPatchFromFields(fields)
	if err != nil {
		return nil, err
	}

	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	stored := u.storeAttachments(ctx, files)
	if stored.image != "" {
		patch.ImageURL = &stored.image
	}
	if stored.logo != "" {
		patch.PartyLogoURL = &stored.logo
	}

	updated, err := u.repo.Update(ctx, id, patch)
	if err != nil {
		u.removeFiles(ctx, stored.image, stored.logo)
		return nil, mapNotFound(err)
	}

	var stale []string
	if patch.ImageURL != nil && existing.ImageURL != *patch.ImageURL {
		stale = append(stale, existing.ImageURL)
	}
	if patch.PartyLogoURL != nil && existing.PartyLogoURL != *patch.PartyLogoURL {
		stale = append(stale, existing.PartyLogoURL)
	}
	u.removeFiles(ctx, stale...)

	return updated, nil
}

// Delete removes the member and, best effort, its local attachments
func (u *MemberUsecase) Delete(ctx context.Context, rawID string) error {
	id, ok := utils.ParseID(rawID)
	if !ok {
		return domainerrors.NotFound(memberNotFoundMessage)
	}

	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}

	u.removeFiles(ctx, existing.ImageURL, existing.PartyLogoURL)
	return nil
}

type storedRefs struct {
	image string
	logo  string
}

// storeAttachments never fails the mutation; a file that cannot be stored is skipped.
func (u *MemberUsecase) storeAttachments(ctx context.Context, files Attachments) storedRefs {
	return storedRefs{
		image: u.storeFile(ctx, entities.AttachmentMemberImage, files.Image),
		logo:  u.storeFile(ctx, entities.AttachmentPartyLogo, files.PartyLogo),
	}
}

func (u *MemberUsecase) storeFile(ctx context.Context, kind entities.AttachmentKind, upload *entities.FileUpload) string {
	if upload == nil || u.files == nil {
		return ""
	}

	rc, err := upload.Open()
	if err != nil {
		logger.Warn(ctx, "Attachment skipped", zap.String("kind", string(kind)), zap.String("filename", upload.Filename), zap.Error(err))
		return ""
	}
	defer rc.Close()

	ref, err := u.files.Save(ctx, kind, upload.Filename, rc)
	if err != nil {
		logger.Warn(ctx, "Attachment skipped", zap.String("kind", string(kind)), zap.String("filename", upload.Filename), zap.Error(err))
		return ""
	}
	return ref
}

func (u *MemberUsecase) removeFiles(ctx context.Context, refs ...string) {
	if u.files == nil {
		return
	}
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := u.files.Remove(ctx, ref); err != nil {
			logger.Warn(ctx, "Failed to remove attachment", zap.String("ref", ref), zap.Error(err))
		}
	}
}

func newMemberFromFields(f entities.MemberFields) (*entities.Member, error) {
	m := &entities.Member{}
	var err error

	if m.Name, err = requiredText("name", f.Name, true); err != nil {
		return nil, err
	}
	if m.Constituency, err = requiredText("constituency", f.Constituency, true); err != nil {
		return nil, err
	}
	if m.SessionName, err = requiredText("sessionName", f.SessionName, true); err != nil {
		return nil, err
	}
	if m.SessionDate, err = parseSessionDate(f.SessionDate); err != nil {
		return nil, err
	}
	if m.SpeechGiven, err = requiredText("speechGiven", f.SpeechGiven, false); err != nil {
		return nil, err
	}
	if m.TimeTaken, err = parseTimeTaken(f.TimeTaken); err != nil {
		return nil, err
	}

	m.PartyName = strings.TrimSpace(f.PartyName.String)
	m.ImageURL = strings.TrimSpace(f.ImageURL.String)
	m.PartyLogoURL = strings.TrimSpace(f.PartyLogoURL.String)
	return m, nil
}

// newPatchFromFields applies the create rules to each supplied field only
func newPatchFromFields(f entities.MemberFields) (entities.MemberPatch, error) {
	var p entities.MemberPatch

	text := []struct {
		name string
		in   null.String
		trim bool
		out  **string
	}{
		{"name", f.Name, true, &p.Name},
		{"constituency", f.Constituency, true, &p.Constituency},
		{"sessionName", f.SessionName, true, &p.SessionName},
		{"speechGiven", f.SpeechGiven, false, &p.SpeechGiven},
	}
	for _, field := range text {
		if !field.in.Valid {
			continue
		}
		v, err := requiredText(field.name, field.in, field.trim)
		if err != nil {
			return p, err
		}
		*field.out = &v
	}

	if f.SessionDate.Valid {
		d, err := parseSessionDate(f.SessionDate)
		if err != nil {
			return p, err
		}
		p.SessionDate = &d
	}
	if f.TimeTaken.Valid {
		t, err := parseTimeTaken(f.TimeTaken)
		if err != nil {
			return p, err
		}
		p.TimeTaken = &t
	}

	p.PartyName = optionalText(f.PartyName)
	p.ImageURL = optionalText(f.ImageURL)
	p.PartyLogoURL = optionalText(f.PartyLogoURL)
	return p, nil
}

func requiredText(name string, v null.String, trim bool) (string, error) {
	value := v.String
	if trim {
		value = strings.TrimSpace(value)
	}
	if !v.Valid || strings.TrimSpace(value) == "" {
		return "", domainerrors.BadRequest(name + " is required")
	}
	return value, nil
}

func optionalText(v null.String) *string {
	if !v.Valid {
		return nil
	}
	value := strings.TrimSpace(v.String)
	return &value
}

func parseSessionDate(v null.String) (time.Time, error) {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return time.Time{}, domainerrors.BadRequest("sessionDate is required")
	}
	d, err := utils.ParseDate(v.String)
	if err != nil {
		return time.Time{}, domainerrors.BadRequest("sessionDate must be a valid date")
	}
	return d, nil
}

func parseTimeTaken(v null.String) (float64, error) {
	raw := strings.TrimSpace(v.String)
	if !v.Valid || raw == "" {
		return 0, domainerrors.BadRequest("timeTaken is required")
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, domainerrors.BadRequest("timeTaken must be a number")
	}
	if n < 0 {
		return 0, domainerrors.BadRequest("timeTaken must not be negative")
	}
	return n, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound(memberNotFoundMessage)
	}
	return err
}

func formatDays(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, utils.FormatDay(d))
	}
	return out
}

func uniqueSorted(values []string, desc bool) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if desc {
		sort.Sort(sort.Reverse(sort.StringSlice(out)))
	} else {
		sort.Strings(out)
	}
	return out
}
