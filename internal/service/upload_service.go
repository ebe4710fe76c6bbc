package service

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cscportal/api/internal/ids"
	"cscportal/api/internal/media/sniffer"
	"cscportal/api/internal/models"
	"cscportal/api/internal/repository"
)

const documentFolder = "documents"

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type UploadLimits struct {
	MaxFileBytes int64
	MaxFiles     int
}

// UploadService accepts customer documents for a service and tracks their
// processing by staff.
type UploadService struct {
	uploads  UploadStore
	services ServiceStore
	blobs    BlobStore
	limits   UploadLimits
	log      zerolog.Logger
	now      func() time.Time
}

func NewUploadService(uploads UploadStore, services ServiceStore, blobs BlobStore, limits UploadLimits, log zerolog.Logger) *UploadService {
	return &UploadService{
		uploads:  uploads,
		services: services,
		blobs:    blobs,
		limits:   limits,
		log:      log,
		now:      time.Now,
	}
}

type UploadInput struct {
	ServiceID string
	UserID    string
	Files     []File
}

// Submit stores every file under documents/<serviceId>/<userId> and records
// the upload as pending. Nothing is written when the service does not exist.
// The submission counter is bumped afterwards; if that fails the upload still
// stands and the counter lags.
func (s *UploadService) Submit(ctx context.Context, input UploadInput) (models.Upload, error) {
	if len(input.Files) == 0 {
		return models.Upload{}, models.ErrEmptyPayload
	}

	userID := strings.TrimSpace(input.UserID)
	var v models.Validator
	v.Check(strings.TrimSpace(input.ServiceID) != "", "serviceId", "is required")
	v.Check(userID == "" || userIDPattern.MatchString(userID), "userId", "may only contain letters, digits, '-' and '_'")
	if s.limits.MaxFiles > 0 {
		v.Check(len(input.Files) <= s.limits.MaxFiles, "files", fmt.Sprintf("at most %d files per upload", s.limits.MaxFiles))
	}
	for i, f := range input.Files {
		field := fmt.Sprintf("files[%d]", i)
		v.Check(len(f.Data) > 0, field, "is empty")
		if s.limits.MaxFileBytes > 0 {
			v.Check(int64(len(f.Data)) <= s.limits.MaxFileBytes, field, fmt.Sprintf("exceeds %d bytes", s.limits.MaxFileBytes))
		}
		_, _, ok := sniff(f, "", sniffer.Documents)
		v.Check(ok, field, "must be one of: "+allowedList(sniffer.Documents))
	}
	if err := v.Err(); err != nil {
		return models.Upload{}, err
	}

	svc, err := s.services.GetByID(ctx, input.ServiceID)
	if err != nil {
		return models.Upload{}, err
	}

	if userID == "" {
		userID = uuid.NewString()
	}
	folder := path.Join(documentFolder, svc.ID, userID)

	now := s.now().UTC()
	files := make([]models.UploadFile, 0, len(input.Files))
	for _, f := range input.Files {
		obj, result, _ := sniff(f, folder, sniffer.Documents)
		ref, err := s.blobs.Store(ctx, obj)
		if err != nil {
			s.releaseFiles(ctx, files)
			return models.Upload{}, models.Dependency("store document", err)
		}
		files = append(files, models.UploadFile{
			URL:        ref.URL,
			PublicID:   ref.PublicID,
			FileName:   f.Name,
			FileType:   result.MIME,
			Size:       int64(len(f.Data)),
			UploadedAt: now,
		})
	}

	upload := models.Upload{
		ID:           ids.New(),
		ServiceID:    svc.ID,
		ServiceTitle: svc.Title,
		UserID:       userID,
		Files:        files,
		Status:       models.UploadStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.uploads.Create(ctx, upload); err != nil {
		s.releaseFiles(ctx, files)
		return models.Upload{}, err
	}

	if err := s.services.IncrementSubmissions(ctx, svc.ID); err != nil {
		s.log.Warn().Err(err).Str("service_id", svc.ID).Str("upload_id", upload.ID).Msg("increment submissions failed")
	}
	return upload, nil
}

func (s *UploadService) releaseFiles(ctx context.Context, files []models.UploadFile) {
	for _, f := range files {
		release(ctx, s.blobs, s.log, models.ImageRef{URL: f.URL, PublicID: f.PublicID})
	}
}

func (s *UploadService) ListByService(ctx context.Context, serviceID, status string, page models.PageRequest) (models.Page[models.Upload], error) {
	return s.list(ctx, repository.UploadFilter{ServiceID: serviceID, Status: status}, page)
}

func (s *UploadService) ListAll(ctx context.Context, status string, page models.PageRequest) (models.Page[models.Upload], error) {
	return s.list(ctx, repository.UploadFilter{Status: status}, page)
}

func (s *UploadService) list(ctx context.Context, filter repository.UploadFilter, page models.PageRequest) (models.Page[models.Upload], error) {
	if filter.Status != "" && !models.UploadStatus(filter.Status).Valid() {
		return models.Page[models.Upload]{}, &models.ValidationError{Fields: map[string]string{"status": "must be one of: pending, processing, completed, rejected"}}
	}
	page = page.Normalize(models.DefaultPageLimit)
	items, total, err := s.uploads.List(ctx, filter, page)
	if err != nil {
		return models.Page[models.Upload]{}, err
	}
	return models.NewPage(items, total, page), nil
}

type UploadStatusInput struct {
	Status     models.UploadStatus
	AdminNotes *string
}

// UpdateStatus stamps processedBy/processedAt whenever the new status is
// completed or rejected. Leaving a terminal status is allowed.
func (s *UploadService) UpdateStatus(ctx context.Context, actor models.Administrator, id string, input UploadStatusInput) (models.Upload, error) {
	if !input.Status.Valid() {
		return models.Upload{}, &models.ValidationError{Fields: map[string]string{"status": "must be one of: pending, processing, completed, rejected"}}
	}

	upload, err := s.uploads.GetByID(ctx, id)
	if err != nil {
		return models.Upload{}, err
	}

	now := s.now().UTC()
	upload.Status = input.Status
	if input.AdminNotes != nil {
		upload.AdminNotes = *input.AdminNotes
	}
	if input.Status.Terminal() {
		upload.ProcessedBy = actor.ID
		upload.ProcessedAt = &now
	}
	upload.UpdatedAt = now

	if err := s.uploads.Update(ctx, upload); err != nil {
		return models.Upload{}, err
	}
	return upload, nil
}

func (s *UploadService) Stats(ctx context.Context) (models.UploadStats, error) {
	byService, err := s.uploads.StatsByService(ctx)
	if err != nil {
		return models.UploadStats{}, err
	}
	totals, err := s.uploads.StatusCounts(ctx)
	if err != nil {
		return models.UploadStats{}, err
	}
	if byService == nil {
		byService = []models.ServiceUploadStats{}
	}
	if totals == nil {
		totals = []models.StatusCount{}
	}
	return models.UploadStats{ByService: byService, Total: totals}, nil
}
