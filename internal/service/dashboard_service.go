package service

import (
	"context"
	"time"

	"cscportal/api/internal/models"
	"cscportal/api/internal/repository"
)

const dashboardRecent = 5

type DashboardService struct {
	services ServiceStore
	contacts ContactStore
	uploads  UploadStore
	offers   OfferStore
	now      func() time.Time
}

func NewDashboardService(services ServiceStore, contacts ContactStore, uploads UploadStore, offers OfferStore) *DashboardService {
	return &DashboardService{services: services, contacts: contacts, uploads: uploads, offers: offers, now: time.Now}
}

func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	var (
		stats models.DashboardStats
		err   error
	)

	if stats.Services.Total, err = s.services.Count(ctx, false); err != nil {
		return models.DashboardStats{}, err
	}
	if stats.Services.Subset, err = s.services.Count(ctx, true); err != nil {
		return models.DashboardStats{}, err
	}
	if stats.Contacts.Total, err = s.contacts.Count(ctx, ""); err != nil {
		return models.DashboardStats{}, err
	}
	if stats.Contacts.Subset, err = s.contacts.Count(ctx, string(models.ContactStatusNew)); err != nil {
		return models.DashboardStats{}, err
	}
	if stats.Uploads.Total, err = s.uploads.Count(ctx, repository.UploadFilter{}); err != nil {
		return models.DashboardStats{}, err
	}
	if stats.Uploads.Subset, err = s.uploads.Count(ctx, repository.UploadFilter{Status: string(models.UploadStatusPending)}); err != nil {
		return models.DashboardStats{}, err
	}
	if stats.Offers.Total, err = s.offers.Count(ctx); err != nil {
		return models.DashboardStats{}, err
	}
	current, err := s.offers.ListCurrent(ctx, s.now())
	if err != nil {
		return models.DashboardStats{}, err
	}
	stats.Offers.Subset = int64(len(current))

	recentPage := models.PageRequest{Page: 1, Limit: dashboardRecent}
	if stats.RecentContact, _, err = s.contacts.List(ctx, "", recentPage); err != nil {
		return models.DashboardStats{}, err
	}
	if stats.RecentUploads, _, err = s.uploads.List(ctx, repository.UploadFilter{}, recentPage); err != nil {
		return models.DashboardStats{}, err
	}
	if stats.RecentContact == nil {
		stats.RecentContact = []models.Contact{}
	}
	if stats.RecentUploads == nil {
		stats.RecentUploads = []models.Upload{}
	}
	return stats, nil
}
