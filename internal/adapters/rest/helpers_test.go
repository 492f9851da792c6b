package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/i18n"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/jwt"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/memory"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contracts"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/usecase"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

type stubGateway struct{}

func (stubGateway) Upload(ctx context.Context, folder string, file port.MediaFile) (domain.Image, error) {
	if strings.HasPrefix(file.Name, "bad") {
		return domain.Image{}, fmt.Errorf("%w: rejected %s", domain.ErrUploadFailed, file.Name)
	}
	return domain.Image{
		URL:      "https://cdn.example.com/" + folder + "/" + file.Name,
		PublicID: folder + "/" + file.Name,
	}, nil
}

func (stubGateway) Delete(ctx context.Context, publicID string) error { return nil }

type stubRecords struct {
	mu        sync.Mutex
	stored    map[string]domain.Draft
	created   []domain.Draft
	createErr error
}

func (s *stubRecords) Fetch(ctx context.Context, kind domain.EntityKind, id string) (domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.stored[id]
	if !ok {
		return domain.Draft{}, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return d, nil
}

func (s *stubRecords) Create(ctx context.Context, kind domain.EntityKind, d domain.Draft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, d)
	return fmt.Sprintf("rec-%d", len(s.created)), nil
}

func (s *stubRecords) Update(ctx context.Context, kind domain.EntityKind, id string, d domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored[id] = d
	return nil
}

type stubRepo struct {
	mu      sync.Mutex
	records map[string]*domain.Record
	seq     int
}

func (r *stubRepo) Insert(ctx context.Context, kind domain.EntityKind, data map[string]any) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	now := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	rec := &domain.Record{ID: fmt.Sprintf("id-%d", r.seq), Kind: kind, Data: data, CreatedAt: now, UpdatedAt: now}
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *stubRepo) Update(ctx context.Context, kind domain.EntityKind, id string, data map[string]any) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.Kind != kind {
		return nil, domain.ErrRecordNotFound
	}
	merged := make(map[string]any, len(rec.Data)+len(data))
	for k, v := range rec.Data {
		merged[k] = v
	}
	for k, v := range data {
		merged[k] = v
	}
	updated := *rec
	updated.Data = merged
	r.records[id] = &updated
	return &updated, nil
}

func (r *stubRepo) Delete(ctx context.Context, kind domain.EntityKind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; !ok || rec.Kind != kind {
		return domain.ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *stubRepo) FindByID(ctx context.Context, kind domain.EntityKind, id string) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.Kind != kind {
		return nil, domain.ErrRecordNotFound
	}
	return rec, nil
}

func (r *stubRepo) List(ctx context.Context, kind domain.EntityKind, query domain.ListQuery) (*domain.RecordPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page := &domain.RecordPage{Page: query.Page, Limit: query.Limit}
	for _, rec := range r.records {
		if rec.Kind == kind {
			page.Items = append(page.Items, *rec)
		}
	}
	page.Total = int64(len(page.Items))
	return page, nil
}

type stubUsers struct {
	users map[string]*domain.AdminUser
}

func (s *stubUsers) Create(ctx context.Context, user *domain.AdminUser) error {
	s.users[user.Email] = user
	return nil
}

func (s *stubUsers) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	return s.users[email], nil
}

type testAPI struct {
	handler http.Handler
	records *stubRecords
	repo    *stubRepo
	tokens  *token_adapter.TokenService
	token   string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := contextkeys.LoggerFromContext(context.Background())

	catalog, err := i18n.NewCatalog()
	require.NoError(t, err)
	validator, err := contracts.NewRecordValidator()
	require.NoError(t, err)
	tokens, err := token_adapter.NewTokenService("rest-test-secret")
	require.NoError(t, err)

	admin, err := domain.NewAdminUser("admin@example.com", "s3cret")
	require.NoError(t, err)
	editor, err := domain.NewAdminUser("editor@example.com", "s3cret")
	require.NoError(t, err)
	editor.Role = "editor"
	users := &stubUsers{users: map[string]*domain.AdminUser{admin.Email: admin, editor.Email: editor}}

	sessions := memory.NewSessionStore(time.Hour, logger)
	records := &stubRecords{stored: map[string]domain.Draft{}}
	repo := &stubRepo{records: map[string]*domain.Record{}}
	cache := memory.NewListingCache(time.Minute)
	gateway := stubGateway{}
	uploader := usecase.NewImageBatchUploader(gateway, usecase.BatchAllOrNothing, 2)

	handlers := Handlers{
		Sessions: NewSessionHandlers(SessionUseCases{
			StartCreate:         usecase.NewStartCreateSessionUseCase(sessions),
			StartEdit:           usecase.NewStartEditSessionUseCase(sessions, records),
			Get:                 usecase.NewGetSessionUseCase(sessions),
			Cancel:              usecase.NewCancelSessionUseCase(sessions),
			SetFields:           usecase.NewSetDraftFieldsUseCase(sessions),
			Navigate:            usecase.NewNavigateStepUseCase(sessions),
			UploadMainImage:     usecase.NewUploadMainImageUseCase(sessions, gateway),
			UploadGallery:       usecase.NewUploadGalleryImagesUseCase(sessions, uploader),
			RemoveGalleryImage:  usecase.NewRemoveGalleryImageUseCase(sessions),
			AddProperty:         usecase.NewAddPropertyUseCase(sessions),
			RemoveProperty:      usecase.NewRemovePropertyUseCase(sessions),
			UpdateProperty:      usecase.NewUpdatePropertyUseCase(sessions),
			UploadPropertyImage: usecase.NewUploadPropertyImagesUseCase(sessions, uploader),
			RemovePropertyImage: usecase.NewRemovePropertyImageUseCase(sessions),
			Submit:              usecase.NewSubmitDraftUseCase(sessions, records),
		}, catalog),
		Records: NewRecordHandlers(
			usecase.NewCreateRecordUseCase(repo, validator, cache, nil),
			usecase.NewUpdateRecordUseCase(repo, validator, cache, nil),
			usecase.NewDeleteRecordUseCase(repo, cache, nil),
			usecase.NewGetRecordUseCase(repo),
			usecase.NewListRecordsUseCase(repo, cache),
			catalog,
		),
		Uploads:  NewUploadHandlers(usecase.NewUploadMediaUseCase(gateway)),
		Auth:     NewAuthHandlers(usecase.NewLoginAdminUseCase(users, tokens, time.Hour), CookieConfig{Name: "token", TTL: time.Hour}),
		Calendar: NewCalendarHandlers(catalog),
	}
	authMW := NewAuthMiddleware(usecase.NewValidateTokenUseCase(tokens), "token")

	token, err := tokens.GenerateToken(context.Background(), admin, time.Hour)
	require.NoError(t, err)

	return &testAPI{
		handler: NewRouter(handlers, authMW, []string{"http://localhost:5173"}, logger),
		records: records,
		repo:    repo,
		tokens:  tokens,
		token:   token,
	}
}

// do sends a JSON request as the admin unless token is empty.
func (a *testAPI) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) upload(t *testing.T, target, field string, files map[string][]byte, order ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range order {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(files[name])
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+a.token)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
