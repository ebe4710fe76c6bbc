package models

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to page >= 1 and 1 <= limit <= MaxPageLimit.
func (p PageRequest) Normalize(defaultLimit int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Limit > 0 {
		pages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, Limit: req.Limit, Pages: pages}
}

type DashboardStats struct {
	Services      EntityCount `json:"services"`
	Contacts      EntityCount `json:"contacts"`
	Uploads       EntityCount `json:"uploads"`
	Offers        EntityCount `json:"offers"`
	RecentContact []Contact   `json:"recentContacts"`
	RecentUploads []Upload    `json:"recentUploads"`
}

// EntityCount pairs a total with the count in the state that needs attention
// (active services, new contacts, pending uploads, live offers).
type EntityCount struct {
	Total  int64 `json:"total"`
	Subset int64 `json:"subset"`
}
