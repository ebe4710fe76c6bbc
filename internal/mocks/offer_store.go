package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"cscportal/api/internal/models"
)

type OfferStore struct {
	Failures
	mu     sync.Mutex
	offers map[string]models.Offer
}

func NewOfferStore(seed ...models.Offer) *OfferStore {
	s := &OfferStore{offers: make(map[string]models.Offer)}
	for _, o := range seed {
		s.offers[o.ID] = o
	}
	return s
}

func (s *OfferStore) Create(ctx context.Context, o models.Offer) error {
	if err := s.check("Create"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[o.ID] = o
	return nil
}

func (s *OfferStore) GetByID(ctx context.Context, id string) (models.Offer, error) {
	if err := s.check("GetByID"); err != nil {
		return models.Offer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offers[id]
	if !ok {
		return models.Offer{}, models.NotFoundError("offer")
	}
	return o, nil
}

func (s *OfferStore) Update(ctx context.Context, o models.Offer) error {
	if err := s.check("Update"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.offers[o.ID]
	if !ok {
		return models.NotFoundError("offer")
	}
	o.Clicks = existing.Clicks
	o.Conversions = existing.Conversions
	s.offers[o.ID] = o
	return nil
}

func (s *OfferStore) IncrementClicks(ctx context.Context, id string) error {
	if err := s.check("IncrementClicks"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offers[id]
	if !ok {
		return models.NotFoundError("offer")
	}
	o.Clicks++
	s.offers[id] = o
	return nil
}

func (s *OfferStore) ListCurrent(ctx context.Context, now time.Time) ([]models.Offer, error) {
	if err := s.check("ListCurrent"); err != nil {
		return nil, err
	}
	out := s.filter(func(o models.Offer) bool { return o.CurrentlyActive(now) })
	sort.Slice(out, func(i, j int) bool { return out[i].ValidUntil.Before(out[j].ValidUntil) })
	return out, nil
}

func (s *OfferStore) List(ctx context.Context, activeOnly bool) ([]models.Offer, error) {
	if err := s.check("List"); err != nil {
		return nil, err
	}
	out := s.filter(func(o models.Offer) bool { return !activeOnly || o.IsActive })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *OfferStore) Count(ctx context.Context) (int64, error) {
	if err := s.check("Count"); err != nil {
		return 0, err
	}
	return int64(len(s.filter(func(models.Offer) bool { return true }))), nil
}

func (s *OfferStore) filter(keep func(models.Offer) bool) []models.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Offer
	for _, o := range s.offers {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
