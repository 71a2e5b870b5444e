// Package accounts provides the persistence layer for TOTP account rows.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/secure2fa/vault/internal/common"
	"github.com/secure2fa/vault/internal/dbx"
	"github.com/secure2fa/vault/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure, which the service layer surfaces as common.ErrorConflict.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func (r *SQLiteRepository) Add(ctx context.Context, a *models.Account) (*models.Account, error) {
	query := `INSERT INTO accounts (issuer, account_name, encrypted_secret, secret_nonce, sync_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at`

	syncID := a.SyncID
	if syncID == "" {
		syncID = uuid.NewString()
	}

	var createdAt int64
	row := r.db.QueryRowContext(ctx, query,
		a.Issuer, a.AccountName, a.EncryptedSecret, a.SecretNonce, syncID)
	if err := row.Scan(&a.ID, &createdAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("account %s/%s: %w", a.Issuer, a.AccountName, common.ErrorConflict)
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	a.SyncID = syncID
	a.CreatedAt = timeFromUnix(createdAt)
	return a, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Account, error) {
	query := `SELECT id, issuer, account_name, encrypted_secret, secret_nonce, sync_id, created_at
		FROM accounts ORDER BY issuer ASC, account_name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select accounts: %w", err)
	}
	defer rows.Close()

	var result []models.Account
	for rows.Next() {
		var item models.Account
		var createdAt int64
		if err := rows.Scan(&item.ID, &item.Issuer, &item.AccountName,
			&item.EncryptedSecret, &item.SecretNonce, &item.SyncID, &createdAt); err != nil {
			return nil, err
		}
		item.CreatedAt = timeFromUnix(createdAt)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT id, issuer, account_name, encrypted_secret, secret_nonce, sync_id, created_at
		FROM accounts WHERE id = ?`

	a := &models.Account{}
	var createdAt int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Issuer, &a.AccountName,
		&a.EncryptedSecret, &a.SecretNonce, &a.SyncID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select account: %w", err)
	}
	a.CreatedAt = timeFromUnix(createdAt)
	return a, nil
}

func (r *SQLiteRepository) UpdateNames(ctx context.Context, id int64, issuer, accountName string) error {
	query := `UPDATE accounts SET issuer = ?, account_name = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, issuer, accountName, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account %s/%s: %w", issuer, accountName, common.ErrorConflict)
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("account %d: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM accounts WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("account %d: %w", id, common.ErrorNotFound)
	}
	return nil
}
