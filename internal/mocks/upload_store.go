package mocks

import (
	"context"
	"sort"
	"sync"

	"cscportal/api/internal/models"
	"cscportal/api/internal/repository"
)

type UploadStore struct {
	Failures
	mu      sync.Mutex
	uploads map[string]models.Upload
}

func NewUploadStore(seed ...models.Upload) *UploadStore {
	s := &UploadStore{uploads: make(map[string]models.Upload)}
	for _, u := range seed {
		s.uploads[u.ID] = u
	}
	return s
}

// Len reports how many uploads are stored.
func (s *UploadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

func (s *UploadStore) Create(ctx context.Context, u models.Upload) error {
	if err := s.check("Create"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[u.ID] = u
	return nil
}

func (s *UploadStore) GetByID(ctx context.Context, id string) (models.Upload, error) {
	if err := s.check("GetByID"); err != nil {
		return models.Upload{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.uploads[id]
	if !ok {
		return models.Upload{}, models.NotFoundError("upload")
	}
	return u, nil
}

func (s *UploadStore) List(ctx context.Context, filter repository.UploadFilter, page models.PageRequest) ([]models.Upload, int64, error) {
	if err := s.check("List"); err != nil {
		return nil, 0, err
	}
	all := s.matching(filter)
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, page), int64(len(all)), nil
}

func (s *UploadStore) Count(ctx context.Context, filter repository.UploadFilter) (int64, error) {
	if err := s.check("Count"); err != nil {
		return 0, err
	}
	return int64(len(s.matching(filter))), nil
}

func (s *UploadStore) Update(ctx context.Context, u models.Upload) error {
	if err := s.check("Update"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.uploads[u.ID]; !ok {
		return models.NotFoundError("upload")
	}
	s.uploads[u.ID] = u
	return nil
}

func (s *UploadStore) StatsByService(ctx context.Context) ([]models.ServiceUploadStats, error) {
	if err := s.check("StatsByService"); err != nil {
		return nil, err
	}
	byID := map[string]*models.ServiceUploadStats{}
	for _, u := range s.matching(repository.UploadFilter{}) {
		st, ok := byID[u.ServiceID]
		if !ok {
			st = &models.ServiceUploadStats{ServiceID: u.ServiceID, ServiceName: u.ServiceTitle}
			byID[u.ServiceID] = st
		}
		st.Total++
		switch u.Status {
		case models.UploadStatusPending:
			st.Pending++
		case models.UploadStatusCompleted:
			st.Completed++
		}
	}
	out := make([]models.ServiceUploadStats, 0, len(byID))
	for _, st := range byID {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

func (s *UploadStore) StatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	if err := s.check("StatusCounts"); err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, u := range s.matching(repository.UploadFilter{}) {
		counts[string(u.Status)]++
	}
	return statusCounts(counts), nil
}

func (s *UploadStore) matching(filter repository.UploadFilter) []models.Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Upload
	for _, u := range s.uploads {
		if filter.ServiceID != "" && u.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Status != "" && string(u.Status) != filter.Status {
			continue
		}
		out = append(out, u)
	}
	return out
}
