package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cscportal/api/internal/models"
)

type OfferRepository struct {
	pool *pgxpool.Pool
}

func NewOfferRepository(pool *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{pool: pool}
}

const offerColumns = `id, title, description, image_url, image_public_id, discount, discount_type, services,
	valid_from, valid_until, is_active, show_on_popup, whatsapp_message, clicks, conversions, created_by,
	created_at, updated_at`

func scanOffer(row scanner) (models.Offer, error) {
	var o models.Offer
	err := row.Scan(
		&o.ID,
		&o.Title,
		&o.Description,
		&o.Image.URL,
		&o.Image.PublicID,
		&o.Discount,
		&o.DiscountType,
		&o.Services,
		&o.ValidFrom,
		&o.ValidUntil,
		&o.IsActive,
		&o.ShowOnPopup,
		&o.WhatsappMessage,
		&o.Clicks,
		&o.Conversions,
		&o.CreatedBy,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

func (r *OfferRepository) Create(ctx context.Context, o models.Offer) error {
	const query = `
		INSERT INTO offers (
			id, title, description, image_url, image_public_id, discount, discount_type, services,
			valid_from, valid_until, is_active, show_on_popup, whatsapp_message, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15
		)
	`
	_, err := r.pool.Exec(ctx, query,
		o.ID, o.Title, o.Description, o.Image.URL, o.Image.PublicID, o.Discount, o.DiscountType, o.Services,
		o.ValidFrom, o.ValidUntil, o.IsActive, o.ShowOnPopup, o.WhatsappMessage, o.CreatedBy, o.CreatedAt,
	)
	return translate("offer", err)
}

func (r *OfferRepository) GetByID(ctx context.Context, id string) (models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`
	o, err := scanOffer(r.pool.QueryRow(ctx, query, id))
	return o, translate("offer", err)
}

func (r *OfferRepository) Update(ctx context.Context, o models.Offer) error {
	const query = `
		UPDATE offers
		SET title = $2, description = $3, image_url = $4, image_public_id = $5, discount = $6,
		    discount_type = $7, services = $8, valid_from = $9, valid_until = $10, is_active = $11,
		    show_on_popup = $12, whatsapp_message = $13, updated_at = $14
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		o.ID, o.Title, o.Description, o.Image.URL, o.Image.PublicID, o.Discount,
		o.DiscountType, o.Services, o.ValidFrom, o.ValidUntil, o.IsActive,
		o.ShowOnPopup, o.WhatsappMessage, o.UpdatedAt,
	)
	if err != nil {
		return translate("offer", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.NotFoundError("offer")
	}
	return nil
}

// IncrementClicks is a single atomic UPDATE so concurrent clicks are never lost.
func (r *OfferRepository) IncrementClicks(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE offers SET clicks = clicks + 1 WHERE id = $1`, id)
	if err != nil {
		return translate("offer", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.NotFoundError("offer")
	}
	return nil
}

// ListCurrent returns offers live at now, earliest expiry first.
func (r *OfferRepository) ListCurrent(ctx context.Context, now time.Time) ([]models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers
		WHERE is_active AND valid_from <= $1 AND valid_until >= $1
		ORDER BY valid_until ASC`
	return r.list(ctx, query, now)
}

// List returns every offer, or only flagged-active ones, newest first.
func (r *OfferRepository) List(ctx context.Context, activeOnly bool) ([]models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers
		WHERE ($1 = FALSE OR is_active)
		ORDER BY created_at DESC`
	return r.list(ctx, query, activeOnly)
}

func (r *OfferRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM offers`).Scan(&total)
	return total, translate("offer", err)
}

func (r *OfferRepository) list(ctx context.Context, query string, args ...any) ([]models.Offer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("offer", err)
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, translate("offer", err)
		}
		offers = append(offers, o)
	}
	return offers, translate("offer", rows.Err())
}
