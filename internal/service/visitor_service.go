package service

import "context"

// VisitorService exposes the single site-wide visit counter.
type VisitorService struct {
	counter Counter
}

func NewVisitorService(counter Counter) *VisitorService {
	return &VisitorService{counter: counter}
}

func (s *VisitorService) Increment(ctx context.Context) (int64, error) { return s.counter.Increment(ctx) }
func (s *VisitorService) Count(ctx context.Context) (int64, error)     { return s.counter.Read(ctx) }
func (s *VisitorService) Reset(ctx context.Context) (int64, error)     { return s.counter.Reset(ctx) }
