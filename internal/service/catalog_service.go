package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cscportal/api/internal/ids"
	"cscportal/api/internal/media/sniffer"
	"cscportal/api/internal/models"
)

const (
	serviceImageFolder = "services"
	maxSlugAttempts    = 100
)

// CatalogService manages the government services offered by the centre.
type CatalogService struct {
	services ServiceStore
	blobs    BlobStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewCatalogService(services ServiceStore, blobs BlobStore, log zerolog.Logger) *CatalogService {
	return &CatalogService{services: services, blobs: blobs, log: log, now: time.Now}
}

// ServiceInput carries create and update fields. Nil means "not supplied".
type ServiceInput struct {
	Title           *string
	Slug            *string
	Icon            *string
	Description     *string
	FullDescription *string
	ProcessingTime  *string
	Documents       []string
	Order           *int
	Image           *File
}

func (s *CatalogService) ListActive(ctx context.Context) ([]models.Service, error) {
	return s.services.List(ctx, true)
}

func (s *CatalogService) ListAll(ctx context.Context) ([]models.Service, error) {
	return s.services.List(ctx, false)
}

// Get looks a service up by id or slug, inactive ones included, and counts
// the view.
func (s *CatalogService) Get(ctx context.Context, idOrSlug string) (models.Service, error) {
	var (
		svc models.Service
		err error
	)
	if ids.Valid(idOrSlug) {
		svc, err = s.services.GetByID(ctx, idOrSlug)
		if errors.Is(err, models.ErrNotFound) {
			svc, err = s.services.GetBySlug(ctx, idOrSlug)
		}
	} else {
		svc, err = s.services.GetBySlug(ctx, strings.ToLower(idOrSlug))
	}
	if err != nil {
		return models.Service{}, err
	}

	views, err := s.services.IncrementViews(ctx, svc.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("service_id", svc.ID).Msg("increment views failed")
	} else {
		svc.Meta.Views = views
	}
	return svc, nil
}

func (s *CatalogService) Create(ctx context.Context, actor models.Administrator, input ServiceInput) (models.Service, error) {
	now := s.now().UTC()
	svc := models.Service{
		ID:        ids.New(),
		Icon:      models.DefaultServiceIcon,
		Documents: []string{},
		IsActive:  true,
		CreatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(&svc, input)

	if err := validateService(svc, input.Image); err != nil {
		return models.Service{}, err
	}
	if err := s.checkTitle(ctx, svc.Title, ""); err != nil {
		return models.Service{}, err
	}

	base := models.Slugify(svc.Title)
	if input.Slug != nil && strings.TrimSpace(*input.Slug) != "" {
		base = models.Slugify(*input.Slug)
	}
	slug, err := s.uniqueSlug(ctx, base, "")
	if err != nil {
		return models.Service{}, err
	}
	svc.Slug = slug

	if input.Image != nil {
		ref, err := s.storeImage(ctx, *input.Image)
		if err != nil {
			return models.Service{}, err
		}
		svc.Image = ref
	}

	if err := s.services.Create(ctx, svc); err != nil {
		release(ctx, s.blobs, s.log, svc.Image)
		return models.Service{}, err
	}
	return svc, nil
}

// Update fails with NotFound for a soft-deleted service. A new image replaces
// the stored one, which is released after the row is written.
func (s *CatalogService) Update(ctx context.Context, id string, input ServiceInput) (models.Service, error) {
	svc, err := s.activeService(ctx, id)
	if err != nil {
		return models.Service{}, err
	}
	previousTitle := svc.Title
	apply(&svc, input)

	if err := validateService(svc, input.Image); err != nil {
		return models.Service{}, err
	}
	if !strings.EqualFold(svc.Title, previousTitle) {
		if err := s.checkTitle(ctx, svc.Title, svc.ID); err != nil {
			return models.Service{}, err
		}
	}

	switch {
	case input.Slug != nil && strings.TrimSpace(*input.Slug) != "":
		svc.Slug, err = s.uniqueSlug(ctx, models.Slugify(*input.Slug), svc.ID)
	case svc.Title != previousTitle:
		svc.Slug, err = s.uniqueSlug(ctx, models.Slugify(svc.Title), svc.ID)
	}
	if err != nil {
		return models.Service{}, err
	}

	oldImage := svc.Image
	if input.Image != nil {
		ref, err := s.storeImage(ctx, *input.Image)
		if err != nil {
			return models.Service{}, err
		}
		svc.Image = ref
	}
	svc.UpdatedAt = s.now().UTC()

	if err := s.services.Update(ctx, svc); err != nil {
		if input.Image != nil {
			release(ctx, s.blobs, s.log, svc.Image)
		}
		return models.Service{}, err
	}
	if input.Image != nil {
		release(ctx, s.blobs, s.log, oldImage)
	}
	return svc, nil
}

// Delete deactivates the service and releases its image. The row stays so
// uploads and offers that reference it still resolve.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	svc, err := s.activeService(ctx, id)
	if err != nil {
		return err
	}
	image := svc.Image
	svc.IsActive = false
	svc.Image = models.ImageRef{}
	svc.UpdatedAt = s.now().UTC()
	if err := s.services.Update(ctx, svc); err != nil {
		return err
	}
	release(ctx, s.blobs, s.log, image)
	return nil
}

func (s *CatalogService) activeService(ctx context.Context, id string) (models.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return models.Service{}, err
	}
	if !svc.IsActive {
		return models.Service{}, models.NotFoundError("service")
	}
	return svc, nil
}

func (s *CatalogService) checkTitle(ctx context.Context, title, excludeID string) error {
	taken, err := s.services.TitleTaken(ctx, title, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.DuplicateError("service with this title")
	}
	return nil
}

// uniqueSlug returns base, or base-2, base-3 ... whichever is free first.
func (s *CatalogService) uniqueSlug(ctx context.Context, base, excludeID string) (string, error) {
	if base == "" {
		return "", &models.ValidationError{Fields: map[string]string{"slug": "must contain letters or digits"}}
	}
	candidate := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		taken, err := s.services.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", models.DuplicateError("service with this slug")
}

func (s *CatalogService) storeImage(ctx context.Context, f File) (models.ImageRef, error) {
	obj, _, _ := sniff(f, serviceImageFolder, sniffer.Images)
	ref, err := s.blobs.Store(ctx, obj)
	if err != nil {
		return models.ImageRef{}, models.Dependency("store service image", err)
	}
	return ref, nil
}

func apply(svc *models.Service, in ServiceInput) {
	if in.Title != nil {
		svc.Title = strings.TrimSpace(*in.Title)
	}
	if in.Icon != nil && strings.TrimSpace(*in.Icon) != "" {
		svc.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.Description != nil {
		svc.Description = strings.TrimSpace(*in.Description)
	}
	if in.FullDescription != nil {
		svc.FullDescription = strings.TrimSpace(*in.FullDescription)
	}
	if in.ProcessingTime != nil {
		svc.ProcessingTime = strings.TrimSpace(*in.ProcessingTime)
	}
	if in.Documents != nil {
		docs := make([]string, 0, len(in.Documents))
		for _, d := range in.Documents {
			if d = strings.TrimSpace(d); d != "" {
				docs = append(docs, d)
			}
		}
		svc.Documents = docs
	}
	if in.Order != nil {
		svc.Order = *in.Order
	}
}

func validateService(svc models.Service, image *File) error {
	var v models.Validator
	v.Check(svc.Title != "", "title", "is required")
	v.Check(svc.Description != "", "description", "is required")
	v.Check(svc.FullDescription != "", "fullDescription", "is required")
	v.Check(svc.ProcessingTime != "", "processingTime", "is required")
	v.Check(svc.Title == "" || models.Slugify(svc.Title) != "", "title", "must contain letters or digits")
	if image != nil {
		_, _, ok := sniff(*image, serviceImageFolder, sniffer.Images)
		v.Check(ok, "image", "must be one of: "+allowedList(sniffer.Images))
	}
	return v.Err()
}
