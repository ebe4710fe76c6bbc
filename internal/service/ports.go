package service

import (
	"context"
	"time"

	"cscportal/api/internal/models"
	"cscportal/api/internal/repository"
	"cscportal/api/internal/security"
	"cscportal/api/internal/storage"
)

// The interfaces below are satisfied by the pgx repositories, the redis
// counter, the minio object store and the security package. Tests use the
// in-memory doubles from internal/mocks.

type AdminStore interface {
	Create(ctx context.Context, admin models.Administrator) error
	// CreateFirst inserts admin only if no administrator exists yet and
	// returns models.ErrSetupClosed otherwise.
	CreateFirst(ctx context.Context, admin models.Administrator) error
	Count(ctx context.Context) (int64, error)
	FindByEmail(ctx context.Context, email string) (models.Administrator, error)
	GetByID(ctx context.Context, id string) (models.Administrator, error)
	AppendLogin(ctx context.Context, id string, rec models.LoginRecord) error
	UpdateProfile(ctx context.Context, id, name, email string) (models.Administrator, error)
	UpdatePassword(ctx context.Context, id string, hash []byte) error
}

type ServiceStore interface {
	Create(ctx context.Context, s models.Service) error
	GetByID(ctx context.Context, id string) (models.Service, error)
	GetBySlug(ctx context.Context, slug string) (models.Service, error)
	TitleTaken(ctx context.Context, title, excludeID string) (bool, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	List(ctx context.Context, activeOnly bool) ([]models.Service, error)
	Update(ctx context.Context, s models.Service) error
	IncrementViews(ctx context.Context, id string) (int64, error)
	IncrementSubmissions(ctx context.Context, id string) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

type ContactStore interface {
	Create(ctx context.Context, c models.Contact) error
	GetByID(ctx context.Context, id string) (models.Contact, error)
	List(ctx context.Context, status string, page models.PageRequest) ([]models.Contact, int64, error)
	Update(ctx context.Context, c models.Contact) error
	Count(ctx context.Context, status string) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	StatusCounts(ctx context.Context) ([]models.StatusCount, error)
}

type UploadStore interface {
	Create(ctx context.Context, u models.Upload) error
	GetByID(ctx context.Context, id string) (models.Upload, error)
	List(ctx context.Context, filter repository.UploadFilter, page models.PageRequest) ([]models.Upload, int64, error)
	Count(ctx context.Context, filter repository.UploadFilter) (int64, error)
	Update(ctx context.Context, u models.Upload) error
	StatsByService(ctx context.Context) ([]models.ServiceUploadStats, error)
	StatusCounts(ctx context.Context) ([]models.StatusCount, error)
}

type OfferStore interface {
	Create(ctx context.Context, o models.Offer) error
	GetByID(ctx context.Context, id string) (models.Offer, error)
	Update(ctx context.Context, o models.Offer) error
	IncrementClicks(ctx context.Context, id string) error
	ListCurrent(ctx context.Context, now time.Time) ([]models.Offer, error)
	List(ctx context.Context, activeOnly bool) ([]models.Offer, error)
	Count(ctx context.Context) (int64, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n models.Notification) error
	GetByID(ctx context.Context, id string) (models.Notification, error)
	Update(ctx context.Context, n models.Notification) error
	Delete(ctx context.Context, id string) error
	ListCurrent(ctx context.Context, now time.Time) ([]models.Notification, error)
	List(ctx context.Context) ([]models.Notification, error)
}

type Counter interface {
	Increment(ctx context.Context) (int64, error)
	Read(ctx context.Context) (int64, error)
	Reset(ctx context.Context) (int64, error)
}

type BlobStore interface {
	Store(ctx context.Context, obj storage.Object) (models.ImageRef, error)
	Delete(ctx context.Context, publicID string) error
}

type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Verify(password string, encoded []byte) (bool, error)
	NeedsRehash(encoded []byte) bool
}

type TokenIssuer interface {
	Sign(admin models.Administrator) (string, time.Time, error)
	Verify(token string) (*security.AdminClaims, error)
}

var (
	_ AdminStore        = (*repository.AdminRepository)(nil)
	_ ServiceStore      = (*repository.ServiceRepository)(nil)
	_ ContactStore      = (*repository.ContactRepository)(nil)
	_ UploadStore       = (*repository.UploadRepository)(nil)
	_ OfferStore        = (*repository.OfferRepository)(nil)
	_ NotificationStore = (*repository.NotificationRepository)(nil)
	_ Counter           = (*repository.VisitorCounter)(nil)
	_ BlobStore         = (*storage.ObjectStore)(nil)
	_ PasswordHasher    = (*security.PasswordHasher)(nil)
	_ TokenIssuer       = (*security.TokenSigner)(nil)
)
