package accounts

import (
	"context"

	"github.com/secure2fa/vault/internal/models"
)

// Repository describes CRUD operations for Account rows.
// Implementations are backed by the local SQLite database.
type Repository interface {
	// Add inserts a new account and returns it with ID and CreatedAt
	// populated. A duplicate (issuer, account_name) pair yields
	// common.ErrorConflict.
	Add(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetAll returns every account, ordered by issuer.
	GetAll(ctx context.Context) ([]models.Account, error)

	// GetByID returns one account or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Account, error)

	// UpdateNames changes issuer/account_name only; the encrypted secret
	// and its nonce are never touched. Returns common.ErrorNotFound for an
	// unknown id and common.ErrorConflict when the new pair collides with
	// a different row.
	UpdateNames(ctx context.Context, id int64, issuer, accountName string) error

	// DeleteByID removes one account or returns common.ErrorNotFound.
	DeleteByID(ctx context.Context, id int64) error
}
