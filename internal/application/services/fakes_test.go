package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"file-share-api/internal/domain/errs"
	"file-share-api/internal/domain/file"
	"file-share-api/internal/domain/user"
	"file-share-api/internal/infrastructure/mq"
	"file-share-api/internal/infrastructure/storage"
)

// memCatalog implements both file.Repository and user.Repository in memory.
type memCatalog struct {
	mu     sync.Mutex
	users  map[user.UUID]*user.User
	files  map[file.UUID]*file.File
	tokens map[string]file.UUID

	CreateFilesErr error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		users:  map[user.UUID]*user.User{},
		files:  map[file.UUID]*file.File{},
		tokens: map[string]file.UUID{},
	}
}

func cloneFile(f *file.File) *file.File {
	c := *f
	c.SharedWith = append([]user.UUID{}, f.SharedWith...)
	c.ShareLinks = append(file.ShareLinks{}, f.ShareLinks...)
	return &c
}

func (m *memCatalog) addUser(name string) user.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.users[id] = &user.User{UUID: id, Name: name, Email: name + "@example.com"}
	return id
}

func (m *memCatalog) CreateFiles(_ context.Context, fs file.Files) (file.Files, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateFilesErr != nil {
		return nil, m.CreateFilesErr
	}
	out := make(file.Files, 0, len(fs))
	for _, f := range fs {
		m.files[f.UUID] = cloneFile(f)
		out = append(out, cloneFile(f))
	}
	return out, nil
}

func (m *memCatalog) FetchFileByID(_ context.Context, id file.UUID) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, nil
	}
	return cloneFile(f), nil
}

func (m *memCatalog) FetchFileByToken(ctx context.Context, token string) (*file.File, error) {
	m.mu.Lock()
	id, ok := m.tokens[token]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return m.FetchFileByID(ctx, id)
}

func (m *memCatalog) FetchOwnerFiles(_ context.Context, owner user.UUID) (file.Files, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := file.Files{}
	for _, f := range m.files {
		if f.Owner == owner {
			out = append(out, cloneFile(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	return out, nil
}

func (m *memCatalog) AddSharedUsers(_ context.Context, id file.UUID, owner user.UUID, userIDs []user.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.Owner != owner {
		return nil
	}
	for _, uid := range userIDs {
		if _, exists := m.users[uid]; !exists || uid == f.Owner || f.IsSharedWith(uid) {
			continue
		}
		f.SharedWith = append(f.SharedWith, uid)
	}
	return nil
}

func (m *memCatalog) AddShareLink(_ context.Context, id file.UUID, link file.ShareLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.tokens[link.Token]; taken {
		return file.ErrTokenTaken
	}
	f, ok := m.files[id]
	if !ok {
		return errs.ErrFileNotFound
	}
	m.tokens[link.Token] = id
	f.ShareLinks = append(f.ShareLinks, link)
	return nil
}

func (m *memCatalog) DeleteFile(_ context.Context, id file.UUID) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, nil
	}
	delete(m.files, id)
	for _, l := range f.ShareLinks {
		delete(m.tokens, l.Token)
	}
	return f, nil
}

func (m *memCatalog) DeleteExpiredLinks(_ context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (m *memCatalog) FetchUserByID(_ context.Context, id user.UUID) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memCatalog) FetchUserByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memCatalog) FetchUsersByIDs(_ context.Context, ids []user.UUID) (user.Users, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := user.Users{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memCatalog) FetchUsersExcept(_ context.Context, id user.UUID) (user.Users, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := user.Users{}
	for uid, u := range m.users {
		if uid != id {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memCatalog) CreateUser(_ context.Context, u user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.UUID = uuid.New()
	m.users[u.UUID] = &u
	return &u, nil
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	PutErr  func(key string) error
}

func newMemStorage() *memStorage { return &memStorage{objects: map[string][]byte{}} }

func (s *memStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.PutErr != nil {
		if err := s.PutErr(key); err != nil {
			return err
		}
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return nil
}

func (s *memStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, storage.ErrObjectNotFound)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

type recJanitor struct {
	mu   sync.Mutex
	keys []string
}

func (j *recJanitor) Enqueue(key string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.keys = append(j.keys, key)
}

type recPublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *recPublisher) Publish(e mq.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

func newTestCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counters"}, []string{"result"})
}

type part struct {
	name, contentType, body string
}

// fileHeaders builds multipart headers the way gin hands them to controllers.
func fileHeaders(t *testing.T, parts ...part) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, p.name))
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["files"]
}
