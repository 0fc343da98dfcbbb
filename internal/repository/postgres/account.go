package postgres

import (
	"context"

	"image-service/internal/domain/account"
	"image-service/internal/repository"
	apperrors "image-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ repository.AccountRepository = (*AccountRepository)(nil)

type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, input account.CreateAccountInput) (*account.Account, error) {
	query := `
		INSERT INTO accounts (username, password_hash, plan_id)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, plan_id, created_at, updated_at
	`

	a := &account.Account{}
	err := r.db.Pool.QueryRow(ctx, query, input.Username, input.PasswordHash, input.PlanID).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.PlanID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("account with this username already exists")
		}
		return nil, errFailedCreateAccount(err)
	}

	return a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, username, password_hash, plan_id, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	a := &account.Account{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.PlanID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errAccountNotFound)
		}
		return nil, errFailedGetAccount(err)
	}

	return a, nil
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	query := `
		SELECT id, username, password_hash, plan_id, created_at, updated_at
		FROM accounts
		WHERE username = $1
	`

	a := &account.Account{}
	err := r.db.Pool.QueryRow(ctx, query, username).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.PlanID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errAccountNotFound)
		}
		return nil, errFailedGetAccount(err)
	}

	return a, nil
}

// Delete removes an account. Its images are removed by the images.account_id
// ON DELETE CASCADE constraint.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return errFailedDeleteAccount(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errAccountNotFound)
	}

	return nil
}
