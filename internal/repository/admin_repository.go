package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cscportal/api/internal/models"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

const adminColumns = `id, name, email, password_hash, role, is_active, last_login, login_history, created_at, updated_at`

func scanAdmin(row scanner) (models.Administrator, error) {
	var admin models.Administrator
	err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.IsActive,
		&admin.LastLogin,
		&admin.LoginHistory,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	return admin, err
}

func (r *AdminRepository) Create(ctx context.Context, admin models.Administrator) error {
	const query = `
		INSERT INTO administrators (
			id, name, email, password_hash, role, is_active, login_history, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, '[]'::jsonb, $7, $7
		)
	`
	_, err := r.pool.Exec(ctx, query,
		admin.ID,
		admin.Name,
		strings.ToLower(admin.Email),
		admin.PasswordHash,
		admin.Role,
		admin.IsActive,
		admin.CreatedAt,
	)
	return translate("admin", err)
}

// CreateFirst inserts admin only while the table is empty. The table lock
// serialises concurrent first registrations and plain inserts, so exactly
// one caller wins setup mode; the rest get models.ErrSetupClosed.
func (r *AdminRepository) CreateFirst(ctx context.Context, admin models.Administrator) error {
	const query = `
		INSERT INTO administrators (
			id, name, email, password_hash, role, is_active, login_history, created_at, updated_at
		)
		SELECT $1, $2, $3, $4, $5, $6, '[]'::jsonb, $7, $7
		WHERE NOT EXISTS (SELECT 1 FROM administrators)
	`
	var inserted int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `LOCK TABLE administrators IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, query,
			admin.ID,
			admin.Name,
			strings.ToLower(admin.Email),
			admin.PasswordHash,
			admin.Role,
			admin.IsActive,
			admin.CreatedAt,
		)
		inserted = cmd.RowsAffected()
		return err
	})
	if err != nil {
		return translate("admin", err)
	}
	if inserted == 0 {
		return models.ErrSetupClosed
	}
	return nil
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM administrators`).Scan(&count)
	return count, translate("admin", err)
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (models.Administrator, error) {
	query := `SELECT ` + adminColumns + ` FROM administrators WHERE LOWER(email) = LOWER($1)`
	admin, err := scanAdmin(r.pool.QueryRow(ctx, query, email))
	return admin, translate("admin", err)
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (models.Administrator, error) {
	query := `SELECT ` + adminColumns + ` FROM administrators WHERE id = $1`
	admin, err := scanAdmin(r.pool.QueryRow(ctx, query, id))
	return admin, translate("admin", err)
}

// AppendLogin appends rec to the stored history in a single statement,
// keeping the newest models.MaxLoginHistory entries.
func (r *AdminRepository) AppendLogin(ctx context.Context, id string, rec models.LoginRecord) error {
	const query = `
		UPDATE administrators
		SET last_login = $2,
			login_history = (
				SELECT COALESCE(jsonb_agg(entry ORDER BY pos), '[]'::jsonb)
				FROM (
					SELECT entry, pos
					FROM jsonb_array_elements(login_history || jsonb_build_array($3::jsonb))
						WITH ORDINALITY AS h(entry, pos)
					ORDER BY pos DESC
					LIMIT $4
				) newest
			),
			updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, rec.Timestamp, rec, models.MaxLoginHistory)
	if err != nil {
		return translate("admin", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.NotFoundError("admin")
	}
	return nil
}

func (r *AdminRepository) UpdateProfile(ctx context.Context, id, name, email string) (models.Administrator, error) {
	query := `
		UPDATE administrators
		SET name = $2, email = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + adminColumns
	admin, err := scanAdmin(r.pool.QueryRow(ctx, query, id, name, strings.ToLower(email)))
	return admin, translate("admin", err)
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	const query = `UPDATE administrators SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, hash)
	if err != nil {
		return translate("admin", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.NotFoundError("admin")
	}
	return nil
}
