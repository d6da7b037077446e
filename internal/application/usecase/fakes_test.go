package usecase_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	jpegBytes = append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 64)...)
)

var errBoom = errors.New("boom")

// ── store en memoria ────────────────────────────────────────────────────────

type accountStore struct {
	users    map[string]entity.User
	profiles map[string]entity.Profile
	settings map[string]entity.CompanySetting
	logs     []entity.ActivityLog

	failUpsert bool
}

func newAccountStore() *accountStore {
	return &accountStore{
		users:    map[string]entity.User{},
		profiles: map[string]entity.Profile{},
		settings: map[string]entity.CompanySetting{},
	}
}

func (s *accountStore) clone() *accountStore {
	c := newAccountStore()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.settings {
		c.settings[k] = v
	}
	c.logs = append([]entity.ActivityLog(nil), s.logs...)
	c.failUpsert = s.failUpsert
	return c
}

type fakeTx struct {
	s         *accountStore
	commits   int
	rollbacks int
}

func (f *fakeTx) RunAccount(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	settingsRepo repository.CompanySettingRepository,
	logRepo repository.ActivityLogRepository,
) error) error {
	snap := f.s.clone()
	if err := fn(&userRepo{f.s}, &settingsRepo{f.s}, &logRepo{f.s}); err != nil {
		*f.s = *snap
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

// ── repos ───────────────────────────────────────────────────────────────────

type userRepo struct{ s *accountStore }

func (r *userRepo) load(u entity.User) *entity.User {
	if p, ok := r.s.profiles[u.ID]; ok {
		p := p
		u.Profile = &p
	} else {
		u.Profile = nil
	}
	return &u
}

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	for _, other := range r.s.users {
		if other.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
		if other.Name == u.Name {
			return domain.ErrDuplicate
		}
	}
	stored := *u
	stored.Profile = nil
	r.s.users[u.ID] = stored
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return r.load(u), nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return r.load(u), nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	var out []*entity.User
	for _, u := range r.s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, r.load(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	cur, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	cur.Name, cur.Email, cur.Role, cur.UpdatedAt = u.Name, u.Email, u.Role, u.UpdatedAt
	r.s.users[u.ID] = cur
	return nil
}

func (r *userRepo) UpdatePassword(_ context.Context, id, hash string) error {
	cur, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	cur.PasswordHash = hash
	r.s.users[id] = cur
	return nil
}

func (r *userRepo) UpsertProfile(_ context.Context, p *entity.Profile) error {
	r.s.profiles[p.UserID] = *p
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	delete(r.s.profiles, id)
	return nil
}

type settingsRepo struct{ s *accountStore }

func (r *settingsRepo) GetByUserID(_ context.Context, userID string) (*entity.CompanySetting, error) {
	cs, ok := r.s.settings[userID]
	if !ok {
		return nil, nil
	}
	return &cs, nil
}

func (r *settingsRepo) Upsert(_ context.Context, cs *entity.CompanySetting) error {
	if r.s.failUpsert {
		return errBoom
	}
	r.s.settings[cs.UserID] = *cs
	return nil
}

type logRepo struct{ s *accountStore }

func (r *logRepo) Create(_ context.Context, l *entity.ActivityLog) error {
	r.s.logs = append(r.s.logs, *l)
	return nil
}

func (r *logRepo) List(_ context.Context, f repository.ActivityLogFilter) ([]*entity.ActivityLog, int, error) {
	var out []*entity.ActivityLog
	for i := len(r.s.logs) - 1; i >= 0; i-- {
		l := r.s.logs[i]
		if f.Model != "" && l.Model != f.Model {
			continue
		}
		if f.ActorID != "" && l.ActorID != f.ActorID {
			continue
		}
		out = append(out, &l)
	}
	total := len(out)
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

// ── almacenamiento ──────────────────────────────────────────────────────────

type memStorage struct {
	files map[string][]byte
	dirs  map[string]bool
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}, dirs: map[string]bool{}}
}

func (m *memStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.files[key]
	return ok || m.dirs[key], nil
}

func (m *memStorage) MakeDir(_ context.Context, dir string) error {
	m.dirs[dir] = true
	return nil
}

func (m *memStorage) Put(_ context.Context, key string, content []byte, _ string) error {
	m.files[key] = content
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.files, key)
	return nil
}

func (m *memStorage) URL(key string) string { return "https://cdn.test/" + key }

type fakeCache struct{ invalidated []string }

func (c *fakeCache) Invalidate(_ context.Context, userID string) {
	c.invalidated = append(c.invalidated, userID)
}
