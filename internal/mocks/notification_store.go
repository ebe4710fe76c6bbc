package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"cscportal/api/internal/models"
)

type NotificationStore struct {
	Failures
	mu            sync.Mutex
	notifications map[string]models.Notification
}

func NewNotificationStore(seed ...models.Notification) *NotificationStore {
	s := &NotificationStore{notifications: make(map[string]models.Notification)}
	for _, n := range seed {
		s.notifications[n.ID] = n
	}
	return s
}

func (s *NotificationStore) Create(ctx context.Context, n models.Notification) error {
	if err := s.check("Create"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = n
	return nil
}

func (s *NotificationStore) GetByID(ctx context.Context, id string) (models.Notification, error) {
	if err := s.check("GetByID"); err != nil {
		return models.Notification{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return models.Notification{}, models.NotFoundError("notification")
	}
	return n, nil
}

func (s *NotificationStore) Update(ctx context.Context, n models.Notification) error {
	if err := s.check("Update"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notifications[n.ID]; !ok {
		return models.NotFoundError("notification")
	}
	s.notifications[n.ID] = n
	return nil
}

func (s *NotificationStore) Delete(ctx context.Context, id string) error {
	if err := s.check("Delete"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notifications[id]; !ok {
		return models.NotFoundError("notification")
	}
	delete(s.notifications, id)
	return nil
}

// ListCurrent returns live notifications in storage order. Ordering is left to
// the caller so tests can check it.
func (s *NotificationStore) ListCurrent(ctx context.Context, now time.Time) ([]models.Notification, error) {
	if err := s.check("ListCurrent"); err != nil {
		return nil, err
	}
	return s.filter(func(n models.Notification) bool { return n.CurrentlyActive(now) }), nil
}

func (s *NotificationStore) List(ctx context.Context) ([]models.Notification, error) {
	if err := s.check("List"); err != nil {
		return nil, err
	}
	out := s.filter(func(models.Notification) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *NotificationStore) filter(keep func(models.Notification) bool) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}
