package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockRouteService is a testify mock of port.RouteService
type mockRouteService struct {
	mock.Mock
}

func (m *mockRouteService) Route(ctx context.Context, start, end entity.Coordinate) (*entity.RouteResult, error) {
	args := m.Called(ctx, start, end)
	route, _ := args.Get(0).(*entity.RouteResult)
	return route, args.Error(1)
}

// funcRouteService adapts a function to port.RouteService
type funcRouteService func(ctx context.Context, start, end entity.Coordinate) (*entity.RouteResult, error)

func (f funcRouteService) Route(ctx context.Context, start, end entity.Coordinate) (*entity.RouteResult, error) {
	return f(ctx, start, end)
}

type fakeSessionStore struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*entity.ClaimSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*entity.ClaimSession)}
}

func (f *fakeSessionStore) Create(ctx context.Context, record *entity.ClaimRecord) (*entity.ClaimSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	s := entity.NewClaimSession(fmt.Sprintf("session-%d", f.seq), record, time.Now())
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (*entity.ClaimSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return entity.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) Sweep(ctx context.Context, cutoff time.Time) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id, s := range f.sessions {
		if s.IdleSince(cutoff) {
			ids = append(ids, id)
			delete(f.sessions, id)
		}
	}
	return ids
}

func (f *fakeSessionStore) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

type fakeRenderer struct {
	format string
	err    error
	// onRender runs after each render with the 1-based render count
	onRender func(n int)

	mu   sync.Mutex
	docs []*entity.ClaimDocument
}

func (f *fakeRenderer) Format() string { return f.format }

func (f *fakeRenderer) Render(ctx context.Context, doc *entity.ClaimDocument) (*port.RenderedDocument, error) {
	f.mu.Lock()
	f.docs = append(f.docs, doc)
	n := len(f.docs)
	f.mu.Unlock()
	if f.onRender != nil {
		f.onRender(n)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &port.RenderedDocument{
		FileName:    "Travel_Claim_" + doc.ClaimantName + "." + f.format,
		ContentType: "application/octet-stream",
		Content:     []byte("document"),
	}, nil
}

func (f *fakeRenderer) last() *entity.ClaimDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.docs) == 0 {
		return nil
	}
	return f.docs[len(f.docs)-1]
}

type fakeReceiptEncoder struct {
	err error
}

func (f *fakeReceiptEncoder) Encode(ctx context.Context, fileName string, data []byte) (*entity.ReceiptImage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.ReceiptImage{FileName: fileName, ContentType: "image/jpeg", Data: data}, nil
}

type fakeCatalog struct {
	places []entity.Place
}

func (f *fakeCatalog) List() []entity.Place { return f.places }

func (f *fakeCatalog) Get(id string) (entity.Place, error) {
	for _, p := range f.places {
		if p.ID == id {
			return p, nil
		}
	}
	return entity.Place{}, fmt.Errorf("%w: %s", entity.ErrPlaceNotFound, id)
}

func (f *fakeCatalog) Nearest(c entity.Coordinate, radiusKm float64) (entity.Place, bool) {
	for _, p := range f.places {
		if p.Location.Equal(c) {
			return p, true
		}
	}
	return entity.Place{}, false
}

type fakeStorage struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (f *fakeStorage) Save(ctx context.Context, path string, content []byte) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.files == nil {
		f.files = make(map[string][]byte)
	}
	f.files[path] = content
	return nil
}

func (f *fakeStorage) Read(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("not found: %s", path)
	}
	return b, nil
}

func (f *fakeStorage) Exists(ctx context.Context, path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	return nil
}

func (f *fakeStorage) GetFullPath(relativePath string) string { return relativePath }
