package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/dbx"
	"github.com/dmitrijs2005/funrun/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, password, phone_number, role, reset_token, reset_token_expiry, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	var (
		phone, token sql.NullString
		expiry       sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &phone, &u.Role, &token, &expiry, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		u.PhoneNumber = &phone.String
	}
	if token.Valid {
		u.ResetTokenHash = &token.String
	}
	if expiry.Valid {
		u.ResetTokenExpiry = &expiry.Time
	}
	return u, nil
}

// Create inserts the user. A duplicate email surfaces as common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, name, email, password, phone_number, role)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.PhoneNumber, string(user.Role)).
		Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// SetResetToken replaces whatever token was on file for the user.
func (r *PostgresRepository) SetResetToken(ctx context.Context, email string, tokenHash string, expiry time.Time) error {
	query :=
		`UPDATE users SET reset_token = $2, reset_token_expiry = $3, updated_at = now()
		 WHERE email = $1
		 `

	return r.execOne(ctx, query, email, tokenHash, expiry)
}

// UpdatePassword stores the new hash and clears the reset token in the same
// statement so a token cannot outlive its use.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	query :=
		`UPDATE users SET password = $2, reset_token = NULL, reset_token_expiry = NULL, updated_at = now()
		 WHERE email = $1
		 `

	return r.execOne(ctx, query, email, passwordHash)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
