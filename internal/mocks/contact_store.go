package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"cscportal/api/internal/models"
)

type ContactStore struct {
	Failures
	mu       sync.Mutex
	contacts map[string]models.Contact
}

func NewContactStore(seed ...models.Contact) *ContactStore {
	s := &ContactStore{contacts: make(map[string]models.Contact)}
	for _, c := range seed {
		s.contacts[c.ID] = c
	}
	return s
}

func (s *ContactStore) Create(ctx context.Context, c models.Contact) error {
	if err := s.check("Create"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[c.ID] = c
	return nil
}

func (s *ContactStore) GetByID(ctx context.Context, id string) (models.Contact, error) {
	if err := s.check("GetByID"); err != nil {
		return models.Contact{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return models.Contact{}, models.NotFoundError("contact")
	}
	return c, nil
}

func (s *ContactStore) List(ctx context.Context, status string, page models.PageRequest) ([]models.Contact, int64, error) {
	if err := s.check("List"); err != nil {
		return nil, 0, err
	}
	all := s.filter(func(c models.Contact) bool { return status == "" || string(c.Status) == status })
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, page), int64(len(all)), nil
}

func (s *ContactStore) Update(ctx context.Context, c models.Contact) error {
	if err := s.check("Update"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[c.ID]; !ok {
		return models.NotFoundError("contact")
	}
	s.contacts[c.ID] = c
	return nil
}

func (s *ContactStore) Count(ctx context.Context, status string) (int64, error) {
	if err := s.check("Count"); err != nil {
		return 0, err
	}
	return int64(len(s.filter(func(c models.Contact) bool { return status == "" || string(c.Status) == status }))), nil
}

func (s *ContactStore) CountSince(ctx context.Context, since time.Time) (int64, error) {
	if err := s.check("CountSince"); err != nil {
		return 0, err
	}
	return int64(len(s.filter(func(c models.Contact) bool { return !c.CreatedAt.Before(since) }))), nil
}

func (s *ContactStore) StatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	if err := s.check("StatusCounts"); err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, c := range s.filter(func(models.Contact) bool { return true }) {
		counts[string(c.Status)]++
	}
	return statusCounts(counts), nil
}

func (s *ContactStore) filter(keep func(models.Contact) bool) []models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Contact
	for _, c := range s.contacts {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func paginate[T any](items []T, page models.PageRequest) []T {
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func statusCounts(counts map[string]int64) []models.StatusCount {
	out := make([]models.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, models.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}
