package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/itz-mohit-014/tts-software/internal/auth/domain"
	autherror "github.com/itz-mohit-014/tts-software/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DBTX
}

func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, firstname, lastname, email, password_hash, is_verified, created_at, updated_at
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, email)

	var user domain.User
	err := row.Scan(&user.ID, &user.Firstname, &user.Lastname, &user.Email,
		&user.PasswordHash, &user.Verified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, firstname, lastname, email, password_hash, is_verified, created_at, updated_at
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, id)

	var user domain.User
	err := row.Scan(&user.ID, &user.Firstname, &user.Lastname, &user.Email,
		&user.PasswordHash, &user.Verified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, firstname, lastname, email, password_hash, is_verified, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, user.ID, user.Firstname, user.Lastname, user.Email, user.PasswordHash,
		user.Verified, user.CreatedAt, user.UpdatedAt)

	return err
}

// UpdateProfile builds a SET clause from the non-nil fields only.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)

	appendSet := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	appendSet("firstname", update.Firstname)
	appendSet("lastname", update.Lastname)
	appendSet("email", update.Email)
	appendSet("password_hash", update.Password)

	if len(sets) == 0 {
		return autherror.ErrNoFieldsToUpdate
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrUserNotFound
	}

	return nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE email = $2
	`, passwordHash, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrUserNotFound
	}

	return nil
}

// Upsert keeps at most one live challenge per address. The unique key on
// email plus ON CONFLICT makes concurrent issuance last-write-wins.
func (r *PostgresRepository) Upsert(ctx context.Context, challenge *domain.OTPChallenge) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO otps (email, code, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email)
		DO UPDATE SET
			code = EXCLUDED.code,
			expires_at = EXCLUDED.expires_at
	`, challenge.Email, challenge.Code, challenge.ExpiresAt)

	return err
}

func (r *PostgresRepository) Get(ctx context.Context, email string) (*domain.OTPChallenge, error) {
	query := `
		SELECT email, code, expires_at
		FROM otps
		WHERE email = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, email)

	var challenge domain.OTPChallenge
	err := row.Scan(&challenge.Email, &challenge.Code, &challenge.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get otp challenge: %w", err)
	}

	return &challenge, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM otps WHERE email = $1`, email)
	return err
}
