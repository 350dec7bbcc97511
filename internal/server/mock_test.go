package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errStorage = errors.New("connection refused")

// memStore is an in-memory Store. Setting fail makes every call return it.
type memStore struct {
	mu          sync.Mutex
	fail        error
	users       map[uuid.UUID]*db.User
	resumes     map[uuid.UUID]*types.SavedResume
	generations []types.GenerationRecord
	jobs        []types.JobDescription
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[uuid.UUID]*db.User{},
		resumes: map[uuid.UUID]*types.SavedResume{},
	}
}

func (m *memStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(context.Background(), email)
	return u != nil, err
}

func (m *memStore) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return uuid.Nil, m.fail
	}
	id := uuid.New()
	now := time.Now()
	m.users[id] = &db.User{ID: id, Name: name, Email: strings.ToLower(email), PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	return m.users[id], nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListResumes(_ context.Context, userID uuid.UUID) ([]types.ResumeSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	var out []types.ResumeSummary
	for _, r := range m.resumes {
		if r.UserID == userID {
			out = append(out, types.ResumeSummary{ID: r.ID, Title: r.Title, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memStore) CreateResume(_ context.Context, userID uuid.UUID, title string, data types.ResumeDraft) (*types.SavedResume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	now := time.Now()
	r := &types.SavedResume{ID: uuid.New(), UserID: userID, Title: title, Data: data, CreatedAt: now, UpdatedAt: now}
	m.resumes[r.ID] = r
	copied := *r
	return &copied, nil
}

func (m *memStore) GetResume(_ context.Context, userID, id uuid.UUID) (*types.SavedResume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	r, ok := m.resumes[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (m *memStore) UpdateResume(_ context.Context, userID, id uuid.UUID, title string, data types.ResumeDraft) (*types.SavedResume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	r, ok := m.resumes[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	r.Title, r.Data, r.UpdatedAt = title, data, time.Now()
	copied := *r
	return &copied, nil
}

func (m *memStore) DeleteResume(_ context.Context, userID, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	r, ok := m.resumes[id]
	if !ok || r.UserID != userID {
		return false, nil
	}
	delete(m.resumes, id)
	return true, nil
}

func (m *memStore) SaveGeneration(_ context.Context, record *types.GenerationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.generations = append(m.generations, *record)
	return nil
}

func (m *memStore) ListGenerations(_ context.Context, userID uuid.UUID, limit int) ([]types.GenerationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	var out []types.GenerationRecord
	for i := len(m.generations) - 1; i >= 0 && len(out) < limit; i-- {
		if m.generations[i].UserID == userID {
			out = append(out, m.generations[i])
		}
	}
	return out, nil
}

func (m *memStore) SaveJobDescription(_ context.Context, jd *types.JobDescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	jd.ID = uuid.New()
	jd.CreatedAt = time.Now()
	m.jobs = append(m.jobs, *jd)
	return nil
}

func (m *memStore) ListJobDescriptions(_ context.Context, userID uuid.UUID) ([]types.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	var out []types.JobDescription
	for _, jd := range m.jobs {
		if jd.UserID == userID {
			out = append(out, jd)
		}
	}
	return out, nil
}

type mockGenerator struct {
	calls        int
	GenerateFunc func(ctx context.Context, draft types.ResumeDraft, jobDescription string) (*types.GeneratedContent, error)
}

func (m *mockGenerator) Generate(ctx context.Context, draft types.ResumeDraft, jobDescription string) (*types.GeneratedContent, error) {
	m.calls++
	return m.GenerateFunc(ctx, draft, jobDescription)
}

type mockRefiner struct {
	RefineFunc func(ctx context.Context, req types.RefineSectionRequest) (*types.RefineSectionResponse, error)
}

func (m *mockRefiner) Refine(ctx context.Context, req types.RefineSectionRequest) (*types.RefineSectionResponse, error) {
	return m.RefineFunc(ctx, req)
}

type mockChat struct {
	StreamFunc func(ctx context.Context, req types.ChatRequest, onChunk func(string) error) error
}

func (m *mockChat) Stream(ctx context.Context, req types.ChatRequest, onChunk func(string) error) error {
	return m.StreamFunc(ctx, req, onChunk)
}

type mockScraper struct {
	calls      int
	ScrapeFunc func(ctx context.Context, url string) (*types.ExtractedProfile, error)
}

func (m *mockScraper) Scrape(ctx context.Context, url string) (*types.ExtractedProfile, error) {
	m.calls++
	return m.ScrapeFunc(ctx, url)
}

type mockEnhancer struct {
	EnhanceFunc func(ctx context.Context, profile types.ExtractedProfile) types.EnhancedProfile
}

func (m *mockEnhancer) Enhance(ctx context.Context, profile types.ExtractedProfile) types.EnhancedProfile {
	return m.EnhanceFunc(ctx, profile)
}

type mockPrinter struct {
	html      string
	PrintFunc func(ctx context.Context, html string) ([]byte, error)
}

func (m *mockPrinter) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	m.html = html
	return m.PrintFunc(ctx, html)
}

// testEnv is a server over an in-memory store with one signed-in user.
type testEnv struct {
	t      *testing.T
	server *Server
	store  *memStore
	jwt    *JWTService
	userID uuid.UUID
	token  string
}

func newTestEnv(t *testing.T, deps Deps, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := config.Defaults()
	for _, m := range mutate {
		m(&cfg)
	}

	store := newMemStore()
	jwtService := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	deps.Store = store
	deps.JWT = jwtService
	deps.Passwords = &config.PasswordConfig{BcryptCost: bcrypt.MinCost}

	s, err := New(&cfg, deps)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID)
	require.NoError(t, err)

	return &testEnv{t: t, server: s, store: store, jwt: jwtService, userID: userID, token: token}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	e.t.Helper()
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

// authed sends a request as the env's user.
func (e *testEnv) authed(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.as(e.token, method, path, body, contentType)
}

func (e *testEnv) as(token, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(req)
}

func (e *testEnv) postJSON(path, body string) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.authed(http.MethodPost, path, strings.NewReader(body), "application/json")
}

type formFileField struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, file *formFileField) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.filename+`"`)
		if file.contentType != "" {
			h.Set("Content-Type", file.contentType)
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
