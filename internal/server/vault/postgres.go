package vault

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dsmirnov/passvault/internal/common"
	"github.com/dsmirnov/passvault/internal/dbx"
)

// PostgresRepository implements item storage over a dbx.DBTX (*sql.DB or *sql.Tx).
// Tags are kept in a jsonb column and (un)marshalled here.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, item *Item) (*Item, error) {
	tags, err := marshalTags(item.Tags)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO vault_items (id, account_id, title, encrypted_password, url, notes, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		item.ID, item.AccountID, item.Title, item.EncryptedPassword, item.URL, item.Notes, tags).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, accountID, id string) (*Item, error) {
	query := `
		SELECT id, account_id, title, encrypted_password, url, notes, tags, created_at, updated_at
		FROM vault_items
		WHERE id = $1 AND account_id = $2
	`
	return scanItem(r.db.QueryRowContext(ctx, query, id, accountID))
}

func (r *PostgresRepository) Update(ctx context.Context, item *Item) (*Item, error) {
	tags, err := marshalTags(item.Tags)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE vault_items
		SET title = $3, encrypted_password = $4, url = $5, notes = $6, tags = $7, updated_at = now()
		WHERE id = $1 AND account_id = $2
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		item.ID, item.AccountID, item.Title, item.EncryptedPassword, item.URL, item.Notes, tags).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, accountID, id string) error {
	query := `DELETE FROM vault_items WHERE id = $1 AND account_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, accountID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Search(ctx context.Context, accountID, search string) ([]*Item, error) {
	query := `
		SELECT id, account_id, title, encrypted_password, url, notes, tags, created_at, updated_at
		FROM vault_items
		WHERE account_id = $1 AND ($2 = '' OR title ILIKE '%' || $2 || '%')
		ORDER BY updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to select vault items: %w", err)
	}
	defer rows.Close()

	var result []*Item
	for rows.Next() {
		item, err := scanItemRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row *sql.Row) (*Item, error) {
	item, err := scanItemRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return item, nil
}

func scanItemRow(row rowScanner) (*Item, error) {
	item := &Item{}
	var tags []byte

	err := row.Scan(&item.ID, &item.AccountID, &item.Title, &item.EncryptedPassword,
		&item.URL, &item.Notes, &tags, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return nil, fmt.Errorf("tags decode error: %w", err)
		}
	}
	return item, nil
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("tags encode error: %w", err)
	}
	return b, nil
}
