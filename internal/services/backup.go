package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/secure2fa/vault/internal/common"
	"github.com/secure2fa/vault/internal/cryptox"
	"github.com/secure2fa/vault/internal/filex"
	"github.com/secure2fa/vault/internal/logging"
	"github.com/secure2fa/vault/internal/models"
	"github.com/secure2fa/vault/internal/repositories/accounts"
)

// BackupService exports and imports the vault as a plaintext JSON
// document. The file carries raw base32 secrets; the operator owns its
// protection once it leaves the vault.
type BackupService struct {
	repo      accounts.Repository
	accounts  *AccountService
	gate      *PinService
	masterKey []byte
	log       logging.Logger
}

func NewBackupService(repo accounts.Repository, svc *AccountService, gate *PinService, masterKey []byte, log logging.Logger) *BackupService {
	return &BackupService{repo: repo, accounts: svc, gate: gate, masterKey: masterKey, log: log}
}

// Export decrypts every entry and writes them to path as a JSON array.
// All secrets are decrypted before anything touches the disk, so a single
// undecryptable entry aborts the export without producing a partial file.
func (s *BackupService) Export(ctx context.Context, path string) (int, error) {
	if !s.gate.CanAccess() {
		return 0, fmt.Errorf("vault is locked: %w", common.ErrorAuthentication)
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	doc := make([]models.BackupAccount, 0, len(all))
	for _, a := range all {
		plaintext, err := cryptox.DecryptSecret(a.EncryptedSecret, a.SecretNonce, s.masterKey)
		if err != nil {
			return 0, fmt.Errorf("entry %d (%s): %w", a.ID, a.Issuer, err)
		}
		doc = append(doc, models.BackupAccount{
			Issuer:      a.Issuer,
			AccountName: a.AccountName,
			Secret:      string(plaintext),
		})
		common.WipeByteArray(plaintext)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, err
	}

	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return 0, fmt.Errorf("writing backup: %w", err)
	}

	s.log.Info(ctx, "backup exported", "path", path, "entries", len(doc))
	return len(doc), nil
}

// Import reads a backup file and re-encrypts each entry under this vault's
// master key. Entries whose (issuer, account name) already exist are
// skipped; any other failure stops the import. Returns the number of
// entries actually inserted.
func (s *BackupService) Import(ctx context.Context, path string) (int, error) {
	if !s.gate.CanAccess() {
		return 0, fmt.Errorf("vault is locked: %w", common.ErrorAuthentication)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading backup: %w: %w", common.ErrorIO, err)
	}

	var doc []models.BackupAccount
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("invalid backup file: %w: %w", common.ErrorParse, err)
	}

	inserted := 0
	for _, rec := range doc {
		_, err := s.accounts.Add(ctx, rec.Issuer, rec.AccountName, rec.Secret)
		if errors.Is(err, common.ErrorConflict) {
			s.log.Debug(ctx, "backup entry skipped, already present", "issuer", rec.Issuer, "account", rec.AccountName)
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("entry %s/%s: %w", rec.Issuer, rec.AccountName, err)
		}
		inserted++
	}

	s.log.Info(ctx, "backup imported", "path", path, "inserted", inserted, "total", len(doc))
	return inserted, nil
}
