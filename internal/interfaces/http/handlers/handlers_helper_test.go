package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
	"assembly-directory.backend/internal/interfaces/http/middleware"
	"assembly-directory.backend/internal/usecases"
	"assembly-directory.backend/pkg/crypto"
	"assembly-directory.backend/pkg/jwt"
	"assembly-directory.backend/pkg/utils"
)

type memberRepoStub struct {
	mu      sync.Mutex
	items   map[uuid.UUID]*entities.Member
	writes  int
	listErr error
}

func newMemberRepoStub(seed ...*entities.Member) *memberRepoStub {
	s := &memberRepoStub{items: map[uuid.UUID]*entities.Member{}}
	for _, m := range seed {
		s.items[m.ID] = m
	}
	return s
}

func (s *memberRepoStub) Create(_ context.Context, m *entities.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.items[m.ID] = &cp
	s.writes++
	return nil
}

func (s *memberRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.items[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memberRepoStub) List(_ context.Context, f entities.MemberFilter) ([]*entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*entities.Member
	for _, m := range s.items {
		if f.SessionName != "" && m.SessionName != f.SessionName {
			continue
		}
		if f.SessionDate != nil {
			start, end := utils.DayRange(*f.SessionDate)
			if m.SessionDate.Before(start) || !m.SessionDate.Before(end) {
				continue
			}
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memberRepoStub) Update(_ context.Context, id uuid.UUID, p entities.MemberPatch) (*entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.items[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Constituency != nil {
		m.Constituency = *p.Constituency
	}
	if p.SessionName != nil {
		m.SessionName = *p.SessionName
	}
	if p.SessionDate != nil {
		m.SessionDate = *p.SessionDate
	}
	if p.SpeechGiven != nil {
		m.SpeechGiven = *p.SpeechGiven
	}
	if p.TimeTaken != nil {
		m.TimeTaken = *p.TimeTaken
	}
	if p.PartyName != nil {
		m.PartyName = *p.PartyName
	}
	if p.ImageURL != nil {
		m.ImageURL = *p.ImageURL
	}
	if p.PartyLogoURL != nil {
		m.PartyLogoURL = *p.PartyLogoURL
	}
	s.writes++
	cp := *m
	return &cp, nil
}

func (s *memberRepoStub) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domainerrors.ErrNotFound
	}
	delete(s.items, id)
	s.writes++
	return nil
}

func (s *memberRepoStub) DistinctSessionNames(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, m := range s.items {
		out = append(out, m.SessionName)
	}
	return out, nil
}

func (s *memberRepoStub) DistinctSessionDates(context.Context) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Time
	for _, m := range s.items {
		out = append(out, m.SessionDate)
	}
	return out, nil
}

type fileStoreStub struct {
	saved   map[string]string
	removed []string
}

func (s *fileStoreStub) Save(_ context.Context, kind entities.AttachmentKind, filename string, r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	ref := "/uploads/" + string(kind) + "/" + filename
	if s.saved == nil {
		s.saved = map[string]string{}
	}
	s.saved[ref] = string(body)
	return ref, nil
}

func (s *fileStoreStub) Remove(_ context.Context, ref string) error {
	s.removed = append(s.removed, ref)
	return nil
}

type adminRepoStub struct {
	admins map[string]*entities.Admin
	err    error
}

func (s *adminRepoStub) Create(context.Context, *entities.Admin) error { return nil }
func (s *adminRepoStub) GetByEmail(_ context.Context, email string) (*entities.Admin, error) {
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.admins[email]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return a, nil
}

type testServer struct {
	router  *gin.Engine
	members *memberRepoStub
	files   *fileStoreStub
	admins  *adminRepoStub
	jwt     *jwt.JWTService
}

func newTestServer(t *testing.T, seed ...*entities.Member) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := crypto.HashPasswordWithCost("admin123", 4)
	require.NoError(t, err)

	ts := &testServer{
		members: newMemberRepoStub(seed...),
		files:   &fileStoreStub{},
		admins: &adminRepoStub{admins: map[string]*entities.Admin{
			"admin@example.com": {ID: uuid.New(), Email: "admin@example.com", PasswordHash: hash},
		}},
		jwt: jwt.NewJWTService("test-secret", time.Hour),
	}

	authUsecase := usecases.NewAuthUsecase(ts.admins, ts.jwt)
	memberHandler := NewMemberHandler(usecases.NewMemberUsecase(ts.members, ts.files))
	authHandler := NewAuthHandler(authUsecase)
	auth := middleware.AuthMiddleware(authUsecase)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/members", memberHandler.ListMembers)
	api.GET("/members/filters", memberHandler.GetFilterOptions)
	api.GET("/members/:id", memberHandler.GetMember)
	api.POST("/members", auth, memberHandler.CreateMember)
	api.PUT("/members/:id", auth, memberHandler.UpdateMember)
	api.DELETE("/members/:id", auth, memberHandler.DeleteMember)
	api.POST("/admin/login", authHandler.Login)
	api.GET("/admin/me", auth, authHandler.Me)
	ts.router = r
	return ts
}

func (ts *testServer) token(t *testing.T) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateToken(uuid.New(), "admin@example.com")
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func seedMember(name, session string, day time.Time, created time.Time) *entities.Member {
	return &entities.Member{
		ID:           uuid.New(),
		Name:         name,
		Constituency: "North",
		SessionName:  session,
		SessionDate:  day,
		SpeechGiven:  "Speech",
		TimeTaken:    10,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}
