package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"cscportal/api/internal/models"
)

// ServiceStore is an in-memory catalog repository.
type ServiceStore struct {
	Failures
	mu       sync.Mutex
	services map[string]models.Service
}

func NewServiceStore(seed ...models.Service) *ServiceStore {
	s := &ServiceStore{services: make(map[string]models.Service)}
	for _, svc := range seed {
		s.services[svc.ID] = svc
	}
	return s
}

func (s *ServiceStore) Create(ctx context.Context, svc models.Service) error {
	if err := s.check("Create"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.services {
		if existing.Slug == svc.Slug {
			return models.DuplicateError("service with this slug")
		}
	}
	s.services[svc.ID] = svc
	return nil
}

func (s *ServiceStore) GetByID(ctx context.Context, id string) (models.Service, error) {
	if err := s.check("GetByID"); err != nil {
		return models.Service{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	if !ok {
		return models.Service{}, models.NotFoundError("service")
	}
	return svc, nil
}

func (s *ServiceStore) GetBySlug(ctx context.Context, slug string) (models.Service, error) {
	if err := s.check("GetBySlug"); err != nil {
		return models.Service{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, svc := range s.services {
		if svc.Slug == slug {
			return svc, nil
		}
	}
	return models.Service{}, models.NotFoundError("service")
}

func (s *ServiceStore) TitleTaken(ctx context.Context, title, excludeID string) (bool, error) {
	if err := s.check("TitleTaken"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, svc := range s.services {
		if id != excludeID && strings.EqualFold(svc.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

func (s *ServiceStore) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	if err := s.check("SlugTaken"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, svc := range s.services {
		if id != excludeID && svc.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *ServiceStore) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	if err := s.check("List"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Service
	for _, svc := range s.services {
		if activeOnly && !svc.IsActive {
			continue
		}
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *ServiceStore) Update(ctx context.Context, svc models.Service) error {
	if err := s.check("Update"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[svc.ID]; !ok {
		return models.NotFoundError("service")
	}
	s.services[svc.ID] = svc
	return nil
}

func (s *ServiceStore) IncrementViews(ctx context.Context, id string) (int64, error) {
	if err := s.check("IncrementViews"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	if !ok {
		return 0, models.NotFoundError("service")
	}
	svc.Meta.Views++
	s.services[id] = svc
	return svc.Meta.Views, nil
}

func (s *ServiceStore) IncrementSubmissions(ctx context.Context, id string) error {
	if err := s.check("IncrementSubmissions"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	if !ok {
		return models.NotFoundError("service")
	}
	svc.Meta.Submissions++
	s.services[id] = svc
	return nil
}

func (s *ServiceStore) Count(ctx context.Context, activeOnly bool) (int64, error) {
	list, err := s.List(ctx, activeOnly)
	return int64(len(list)), err
}
