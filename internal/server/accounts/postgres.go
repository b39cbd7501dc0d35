package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dsmirnov/passvault/internal/common"
	"github.com/dsmirnov/passvault/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uniqueViolation = "23505"

func (r *PostgresRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	query :=
		`INSERT INTO accounts (id, email, password_hash, name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.PasswordHash, account.Name).Scan(&account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query :=
		`SELECT id, email, password_hash, name, two_factor_secret, two_factor_enabled, created_at
		 FROM accounts
		 WHERE email = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	query :=
		`SELECT id, email, password_hash, name, two_factor_secret, two_factor_enabled, created_at
		 FROM accounts
		 WHERE id = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*Account, error) {
	account := &Account{}
	var secret sql.NullString

	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash,
		&account.Name, &secret, &account.TwoFactorEnabled, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.TwoFactorSecret = secret.String
	return account, nil
}

func (r *PostgresRepository) SetPendingTwoFactorSecret(ctx context.Context, id, secret string) error {
	query :=
		`UPDATE accounts
		 SET two_factor_secret = $2, two_factor_enabled = false
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, secret)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return r.requireRow(res)
}

func (r *PostgresRepository) EnableTwoFactor(ctx context.Context, id, secret string) error {
	// single-statement compare-and-set: the flag can only be set for the
	// exact secret that was verified
	query :=
		`UPDATE accounts
		 SET two_factor_enabled = true
		 WHERE id = $1 AND two_factor_secret = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, secret)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return r.requireRow(res)
}

func (r *PostgresRepository) requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
