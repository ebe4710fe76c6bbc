package mocks

import (
	"context"
	"strings"
	"sync"

	"cscportal/api/internal/models"
)

// AdminStore is an in-memory administrator repository.
type AdminStore struct {
	Failures
	mu     sync.Mutex
	admins map[string]models.Administrator
}

func NewAdminStore(seed ...models.Administrator) *AdminStore {
	s := &AdminStore{admins: make(map[string]models.Administrator)}
	for _, a := range seed {
		s.admins[a.ID] = a
	}
	return s
}

func (s *AdminStore) Create(ctx context.Context, admin models.Administrator) error {
	if err := s.check("Create"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if strings.EqualFold(a.Email, admin.Email) {
			return models.DuplicateError("admin with this email")
		}
	}
	s.admins[admin.ID] = admin
	return nil
}

func (s *AdminStore) CreateFirst(ctx context.Context, admin models.Administrator) error {
	if err := s.check("CreateFirst"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.admins) > 0 {
		return models.ErrSetupClosed
	}
	s.admins[admin.ID] = admin
	return nil
}

func (s *AdminStore) Count(ctx context.Context) (int64, error) {
	if err := s.check("Count"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.admins)), nil
}

func (s *AdminStore) FindByEmail(ctx context.Context, email string) (models.Administrator, error) {
	if err := s.check("FindByEmail"); err != nil {
		return models.Administrator{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return models.Administrator{}, models.NotFoundError("admin")
}

func (s *AdminStore) GetByID(ctx context.Context, id string) (models.Administrator, error) {
	if err := s.check("GetByID"); err != nil {
		return models.Administrator{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return models.Administrator{}, models.NotFoundError("admin")
	}
	return a, nil
}

func (s *AdminStore) AppendLogin(ctx context.Context, id string, rec models.LoginRecord) error {
	if err := s.check("AppendLogin"); err != nil {
		return err
	}
	return s.mutate(id, func(a *models.Administrator) { a.RecordLogin(rec) })
}

func (s *AdminStore) UpdateProfile(ctx context.Context, id, name, email string) (models.Administrator, error) {
	if err := s.check("UpdateProfile"); err != nil {
		return models.Administrator{}, err
	}
	err := s.mutate(id, func(a *models.Administrator) {
		a.Name = name
		a.Email = strings.ToLower(email)
	})
	if err != nil {
		return models.Administrator{}, err
	}
	return s.GetByID(ctx, id)
}

func (s *AdminStore) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	if err := s.check("UpdatePassword"); err != nil {
		return err
	}
	return s.mutate(id, func(a *models.Administrator) { a.PasswordHash = hash })
}

// Put replaces or inserts an administrator directly.
func (s *AdminStore) Put(admin models.Administrator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[admin.ID] = admin
}

func (s *AdminStore) mutate(id string, fn func(*models.Administrator)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return models.NotFoundError("admin")
	}
	fn(&a)
	s.admins[id] = a
	return nil
}
