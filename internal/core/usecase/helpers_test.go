package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/memory"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// countingStore wraps the memory store and counts created sessions.
type countingStore struct {
	*memory.SessionStore
	mu      sync.Mutex
	created int
}

func newCountingStore() *countingStore {
	return &countingStore{SessionStore: memory.NewSessionStore(time.Hour, contextkeys.LoggerFromContext(context.Background()))}
}

func (s *countingStore) Create(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	s.created++
	s.mu.Unlock()
	return s.SessionStore.Create(ctx, session)
}

func (s *countingStore) createdCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

type fakeGateway struct {
	mu      sync.Mutex
	fail    map[string]error
	gates   map[string]chan struct{}
	started chan string
	folders []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		fail:    map[string]error{},
		gates:   map[string]chan struct{}{},
		started: make(chan string, 64),
	}
}

// hold makes uploads of name block until the returned func is called.
func (g *fakeGateway) hold(name string) func() {
	ch := make(chan struct{})
	g.mu.Lock()
	g.gates[name] = ch
	g.mu.Unlock()
	return func() { close(ch) }
}

func (g *fakeGateway) Upload(ctx context.Context, folder string, file port.MediaFile) (domain.Image, error) {
	g.mu.Lock()
	g.folders = append(g.folders, folder)
	fail := g.fail[file.Name]
	gate := g.gates[file.Name]
	g.mu.Unlock()

	g.started <- file.Name
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.Image{}, ctx.Err()
		}
	}
	if fail != nil {
		return domain.Image{}, fail
	}
	return domain.Image{URL: "https://cdn.test/" + folder + "/" + file.Name, PublicID: folder + "/" + file.Name}, nil
}

func (g *fakeGateway) Delete(ctx context.Context, publicID string) error { return nil }

func (g *fakeGateway) usedFolders() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.folders...)
}

func (g *fakeGateway) waitStarted(t *testing.T, name string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-g.started:
			if got == name {
				return
			}
		case <-deadline:
			t.Fatalf("upload of %s never started", name)
		}
	}
}

type fakeRecordGateway struct {
	mu        sync.Mutex
	records   map[string]domain.Draft
	createErr error
	updateErr error
	fetchErr  error
	creates   int
	updates   int
}

func newFakeRecordGateway() *fakeRecordGateway {
	return &fakeRecordGateway{records: map[string]domain.Draft{}}
}

func (f *fakeRecordGateway) Fetch(ctx context.Context, kind domain.EntityKind, id string) (domain.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return domain.Draft{}, f.fetchErr
	}
	d, ok := f.records[id]
	if !ok {
		return domain.Draft{}, domain.ErrRecordNotFound
	}
	return d, nil
}

func (f *fakeRecordGateway) Create(ctx context.Context, kind domain.EntityKind, draft domain.Draft) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return "", f.createErr
	}
	id := uuid.NewString()
	f.records[id] = draft
	return id, nil
}

func (f *fakeRecordGateway) Update(ctx context.Context, kind domain.EntityKind, id string, draft domain.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.records[id] = draft
	return nil
}

type fakeRepo struct {
	mu      sync.Mutex
	records map[string]*domain.Record
	lists   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]*domain.Record{}}
}

func (r *fakeRepo) Insert(ctx context.Context, kind domain.EntityKind, data map[string]any) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := &domain.Record{ID: uuid.NewString(), Kind: kind, Data: data, CreatedAt: time.Now()}
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *fakeRepo) Update(ctx context.Context, kind domain.EntityKind, id string, data map[string]any) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	for k, v := range data {
		rec.Data[k] = v
	}
	return rec, nil
}

func (r *fakeRepo) Delete(ctx context.Context, kind domain.EntityKind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, kind domain.EntityKind, id string) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return rec, nil
}

func (r *fakeRepo) List(ctx context.Context, kind domain.EntityKind, query domain.ListQuery) (*domain.RecordPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	page := &domain.RecordPage{Page: query.Page, Limit: query.Limit}
	for _, rec := range r.records {
		if rec.Kind == kind {
			page.Items = append(page.Items, *rec)
		}
	}
	page.Total = int64(len(page.Items))
	return page, nil
}

// titleValidator requires a non-empty title.
type titleValidator struct{}

func (titleValidator) Validate(kind domain.EntityKind, data map[string]any) error {
	if s, _ := data["title"].(string); s == "" {
		return domain.ErrInvalidRecord
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.RecordEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, event domain.RecordEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type fakeUserRepo struct {
	users map[string]*domain.AdminUser
	err   error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.AdminUser) error {
	if _, ok := r.users[user.Email]; ok {
		return domain.ErrEmailInUse
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.users[email], nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(ctx context.Context, user *domain.AdminUser, ttl time.Duration) (string, error) {
	return "token-for-" + user.Email, nil
}

func (fakeTokens) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	if token == "good" {
		return &domain.Claims{Email: "admin@example.com", Role: domain.RoleAdmin}, nil
	}
	return nil, domain.ErrTokenInvalid
}

var errHostDown = errors.New("media host unavailable")

func files(names ...string) []port.MediaFile {
	out := make([]port.MediaFile, len(names))
	for i, n := range names {
		out[i] = port.MediaFile{Name: n, ContentType: "image/jpeg", Content: []byte("jpeg:" + n)}
	}
	return out
}

func newSession(t *testing.T, store port.SessionStorePort, kind domain.EntityKind, title string) *domain.Session {
	t.Helper()
	ctx := context.Background()
	s, err := NewStartCreateSessionUseCase(store).Execute(ctx, kind)
	require.NoError(t, err)
	if title != "" {
		s, err = NewSetDraftFieldsUseCase(store).Execute(ctx, s.ID, map[string]any{"title": title})
		require.NoError(t, err)
	}
	return s
}

// ctxStore fails every call whose context is done, the way a networked store
// does.
type ctxStore struct {
	*countingStore
}

func newCtxStore() ctxStore {
	return ctxStore{countingStore: newCountingStore()}
}

func (s ctxStore) Create(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.countingStore.Create(ctx, session)
}

func (s ctxStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.countingStore.Get(ctx, id)
}

func (s ctxStore) Update(ctx context.Context, id string, mutate port.SessionMutator) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.countingStore.Update(ctx, id, mutate)
}

func (s ctxStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.countingStore.Delete(ctx, id)
}

// abandoningRecordGateway cancels the request while the call is in flight.
type abandoningRecordGateway struct {
	*fakeRecordGateway
	cancel context.CancelFunc
}

func (g abandoningRecordGateway) Create(ctx context.Context, kind domain.EntityKind, draft domain.Draft) (string, error) {
	g.cancel()
	return "", fmt.Errorf("persistence: %w", ctx.Err())
}
