package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cscportal/api/internal/models"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

const contactColumns = `id, name, phone, message, service_interest, status, admin_notes, response,
	responded_by, responded_at, created_at, updated_at`

func scanContact(row scanner) (models.Contact, error) {
	var c models.Contact
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.Message,
		&c.ServiceInterest,
		&c.Status,
		&c.AdminNotes,
		&c.Response,
		&c.RespondedBy,
		&c.RespondedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *ContactRepository) Create(ctx context.Context, c models.Contact) error {
	const query = `
		INSERT INTO contacts (id, name, phone, message, service_interest, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Phone, c.Message, c.ServiceInterest, c.Status, c.CreatedAt)
	return translate("contact", err)
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	c, err := scanContact(r.pool.QueryRow(ctx, query, id))
	return c, translate("contact", err)
}

// List returns one page newest first; an empty status matches every contact.
func (r *ContactRepository) List(ctx context.Context, status string, page models.PageRequest) ([]models.Contact, int64, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, status, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, translate("contact", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, translate("contact", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate("contact", err)
	}

	total, err := r.Count(ctx, status)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *ContactRepository) Update(ctx context.Context, c models.Contact) error {
	const query = `
		UPDATE contacts
		SET status = $2, admin_notes = $3, response = $4, responded_by = $5, responded_at = $6, updated_at = $7
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, c.ID, c.Status, c.AdminNotes, c.Response, c.RespondedBy, c.RespondedAt, c.UpdatedAt)
	if err != nil {
		return translate("contact", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.NotFoundError("contact")
	}
	return nil
}

func (r *ContactRepository) Count(ctx context.Context, status string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts WHERE ($1 = '' OR status = $1)`, status).Scan(&total)
	return total, translate("contact", err)
}

func (r *ContactRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts WHERE created_at >= $1`, since).Scan(&total)
	return total, translate("contact", err)
}

func (r *ContactRepository) StatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM contacts GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, translate("contact", err)
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var sc models.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, translate("contact", err)
		}
		counts = append(counts, sc)
	}
	return counts, translate("contact", rows.Err())
}
