package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"cscportal/api/internal/models"
)

type ServiceRepository struct {
	pool *pgxpool.Pool
}

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

const serviceColumns = `id, title, slug, icon, image_url, image_public_id, description, full_description,
	processing_time, documents, is_active, sort_order, views, submissions, created_by, created_at, updated_at`

func scanService(row scanner) (models.Service, error) {
	var s models.Service
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Slug,
		&s.Icon,
		&s.Image.URL,
		&s.Image.PublicID,
		&s.Description,
		&s.FullDescription,
		&s.ProcessingTime,
		&s.Documents,
		&s.IsActive,
		&s.Order,
		&s.Meta.Views,
		&s.Meta.Submissions,
		&s.CreatedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r *ServiceRepository) Create(ctx context.Context, s models.Service) error {
	const query = `
		INSERT INTO services (
			id, title, slug, icon, image_url, image_public_id, description, full_description,
			processing_time, documents, is_active, sort_order, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14
		)
	`
	_, err := r.pool.Exec(ctx, query,
		s.ID, s.Title, s.Slug, s.Icon, s.Image.URL, s.Image.PublicID, s.Description, s.FullDescription,
		s.ProcessingTime, s.Documents, s.IsActive, s.Order, s.CreatedBy, s.CreatedAt,
	)
	return translate("service", err)
}

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	s, err := scanService(r.pool.QueryRow(ctx, query, id))
	return s, translate("service", err)
}

func (r *ServiceRepository) GetBySlug(ctx context.Context, slug string) (models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE slug = $1`
	s, err := scanService(r.pool.QueryRow(ctx, query, slug))
	return s, translate("service", err)
}

func (r *ServiceRepository) TitleTaken(ctx context.Context, title, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM services WHERE LOWER(title) = LOWER($1) AND id <> $2)`
	var taken bool
	err := r.pool.QueryRow(ctx, query, title, excludeID).Scan(&taken)
	return taken, translate("service", err)
}

func (r *ServiceRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM services WHERE slug = $1 AND id <> $2)`
	var taken bool
	err := r.pool.QueryRow(ctx, query, slug, excludeID).Scan(&taken)
	return taken, translate("service", err)
}

func (r *ServiceRepository) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services
		WHERE ($1 = FALSE OR is_active)
		ORDER BY sort_order ASC, created_at DESC`
	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, translate("service", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, translate("service", err)
		}
		services = append(services, s)
	}
	return services, translate("service", rows.Err())
}

func (r *ServiceRepository) Update(ctx context.Context, s models.Service) error {
	const query = `
		UPDATE services
		SET title = $2, slug = $3, icon = $4, image_url = $5, image_public_id = $6, description = $7,
		    full_description = $8, processing_time = $9, documents = $10, is_active = $11,
		    sort_order = $12, updated_at = $13
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		s.ID, s.Title, s.Slug, s.Icon, s.Image.URL, s.Image.PublicID, s.Description,
		s.FullDescription, s.ProcessingTime, s.Documents, s.IsActive, s.Order, s.UpdatedAt,
	)
	if err != nil {
		return translate("service", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.NotFoundError("service")
	}
	return nil
}

// IncrementViews bumps the counter in place and returns the new value.
func (r *ServiceRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := r.pool.QueryRow(ctx, `UPDATE services SET views = views + 1 WHERE id = $1 RETURNING views`, id).Scan(&views)
	return views, translate("service", err)
}

func (r *ServiceRepository) IncrementSubmissions(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE services SET submissions = submissions + 1 WHERE id = $1`, id)
	if err != nil {
		return translate("service", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.NotFoundError("service")
	}
	return nil
}

func (r *ServiceRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM services WHERE ($1 = FALSE OR is_active)`, activeOnly).Scan(&count)
	return count, translate("service", err)
}
