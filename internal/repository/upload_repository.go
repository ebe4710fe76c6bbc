package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"cscportal/api/internal/models"
)

type UploadFilter struct {
	ServiceID string
	Status    string
}

type UploadRepository struct {
	pool *pgxpool.Pool
}

func NewUploadRepository(pool *pgxpool.Pool) *UploadRepository {
	return &UploadRepository{pool: pool}
}

const uploadColumns = `u.id, u.service_id, COALESCE(s.title, ''), u.user_id, u.files, u.status, u.admin_notes,
	u.processed_by, u.processed_at, u.created_at, u.updated_at`

const uploadFrom = ` FROM uploads u LEFT JOIN services s ON s.id = u.service_id`

func scanUpload(row scanner) (models.Upload, error) {
	var u models.Upload
	err := row.Scan(
		&u.ID,
		&u.ServiceID,
		&u.ServiceTitle,
		&u.UserID,
		&u.Files,
		&u.Status,
		&u.AdminNotes,
		&u.ProcessedBy,
		&u.ProcessedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *UploadRepository) Create(ctx context.Context, u models.Upload) error {
	const query = `
		INSERT INTO uploads (id, service_id, user_id, files, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`
	_, err := r.pool.Exec(ctx, query, u.ID, u.ServiceID, u.UserID, u.Files, u.Status, u.CreatedAt)
	return translate("upload", err)
}

func (r *UploadRepository) GetByID(ctx context.Context, id string) (models.Upload, error) {
	query := `SELECT ` + uploadColumns + uploadFrom + ` WHERE u.id = $1`
	u, err := scanUpload(r.pool.QueryRow(ctx, query, id))
	return u, translate("upload", err)
}

func (r *UploadRepository) List(ctx context.Context, filter UploadFilter, page models.PageRequest) ([]models.Upload, int64, error) {
	query := `SELECT ` + uploadColumns + uploadFrom + `
		WHERE ($1 = '' OR u.service_id = $1) AND ($2 = '' OR u.status = $2)
		ORDER BY u.created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, filter.ServiceID, filter.Status, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, translate("upload", err)
	}
	defer rows.Close()

	var uploads []models.Upload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, 0, translate("upload", err)
		}
		uploads = append(uploads, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate("upload", err)
	}

	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return uploads, total, nil
}

func (r *UploadRepository) Count(ctx context.Context, filter UploadFilter) (int64, error) {
	const query = `SELECT COUNT(*) FROM uploads WHERE ($1 = '' OR service_id = $1) AND ($2 = '' OR status = $2)`
	var total int64
	err := r.pool.QueryRow(ctx, query, filter.ServiceID, filter.Status).Scan(&total)
	return total, translate("upload", err)
}

func (r *UploadRepository) Update(ctx context.Context, u models.Upload) error {
	const query = `
		UPDATE uploads
		SET status = $2, admin_notes = $3, processed_by = $4, processed_at = $5, updated_at = $6
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, u.ID, u.Status, u.AdminNotes, u.ProcessedBy, u.ProcessedAt, u.UpdatedAt)
	if err != nil {
		return translate("upload", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.NotFoundError("upload")
	}
	return nil
}

func (r *UploadRepository) StatsByService(ctx context.Context) ([]models.ServiceUploadStats, error) {
	const query = `
		SELECT u.service_id, s.title, COUNT(*),
		       COUNT(*) FILTER (WHERE u.status = 'pending'),
		       COUNT(*) FILTER (WHERE u.status = 'completed')
		FROM uploads u
		JOIN services s ON s.id = u.service_id
		GROUP BY u.service_id, s.title
		ORDER BY COUNT(*) DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translate("upload", err)
	}
	defer rows.Close()

	var stats []models.ServiceUploadStats
	for rows.Next() {
		var st models.ServiceUploadStats
		if err := rows.Scan(&st.ServiceID, &st.ServiceName, &st.Total, &st.Pending, &st.Completed); err != nil {
			return nil, translate("upload", err)
		}
		stats = append(stats, st)
	}
	return stats, translate("upload", rows.Err())
}

func (r *UploadRepository) StatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM uploads GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, translate("upload", err)
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var sc models.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, translate("upload", err)
		}
		counts = append(counts, sc)
	}
	return counts, translate("upload", rows.Err())
}
