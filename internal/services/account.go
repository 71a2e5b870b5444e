package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/secure2fa/vault/internal/common"
	"github.com/secure2fa/vault/internal/cryptox"
	"github.com/secure2fa/vault/internal/logging"
	"github.com/secure2fa/vault/internal/models"
	"github.com/secure2fa/vault/internal/repositories/accounts"
	"github.com/secure2fa/vault/internal/totp"
)

// timeNow is swapped in tests to pin the TOTP window.
var timeNow = time.Now

// AccountService manages vault entries. Every operation consults the PIN
// gate first; secrets are encrypted with the master key on the way in and
// decrypted only transiently for code generation.
type AccountService struct {
	repo      accounts.Repository
	gate      *PinService
	masterKey []byte
	log       logging.Logger
}

func NewAccountService(repo accounts.Repository, gate *PinService, masterKey []byte, log logging.Logger) *AccountService {
	return &AccountService{repo: repo, gate: gate, masterKey: masterKey, log: log}
}

func (s *AccountService) checkAccess() error {
	if !s.gate.CanAccess() {
		return fmt.Errorf("vault is locked: %w", common.ErrorAuthentication)
	}
	return nil
}

// Add validates the base32 secret, encrypts it under the master key, and
// stores the entry. The plaintext secret is never persisted.
func (s *AccountService) Add(ctx context.Context, issuer, accountName, secret string) (*models.Account, error) {
	if err := s.checkAccess(); err != nil {
		return nil, err
	}

	issuer = strings.TrimSpace(issuer)
	accountName = strings.TrimSpace(accountName)
	if issuer == "" || accountName == "" {
		return nil, fmt.Errorf("issuer and account name are required: %w", common.ErrorValidation)
	}

	secret = strings.TrimSpace(secret)
	if err := totp.ValidateSecret(secret); err != nil {
		return nil, err
	}

	ciphertext, nonce, err := cryptox.EncryptSecret([]byte(secret), s.masterKey)
	if err != nil {
		return nil, err
	}

	added, err := s.repo.Add(ctx, &models.Account{
		Issuer:          issuer,
		AccountName:     accountName,
		EncryptedSecret: ciphertext,
		SecretNonce:     nonce,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "account added", "id", added.ID, "issuer", added.Issuer)
	return added, nil
}

// List returns all entries ordered by issuer. Secrets stay encrypted.
func (s *AccountService) List(ctx context.Context) ([]models.Account, error) {
	if err := s.checkAccess(); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx)
}

// Get returns a single entry by id, secret still encrypted.
func (s *AccountService) Get(ctx context.Context, id int64) (*models.Account, error) {
	if err := s.checkAccess(); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update renames an entry. The stored ciphertext and nonce are not touched;
// to rotate a secret the entry is deleted and re-added.
func (s *AccountService) Update(ctx context.Context, id int64, issuer, accountName string) error {
	if err := s.checkAccess(); err != nil {
		return err
	}

	issuer = strings.TrimSpace(issuer)
	accountName = strings.TrimSpace(accountName)
	if issuer == "" || accountName == "" {
		return fmt.Errorf("issuer and account name are required: %w", common.ErrorValidation)
	}

	return s.repo.UpdateNames(ctx, id, issuer, accountName)
}

// Delete removes an entry permanently.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if err := s.checkAccess(); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "account deleted", "id", id)
	return nil
}

// OTP holds one generated code and its remaining validity in seconds.
type OTP struct {
	Code      string
	Remaining int
}

// CurrentOTP decrypts the entry's secret, generates the code for the
// current 30-second window, and wipes the intermediate plaintext.
func (s *AccountService) CurrentOTP(ctx context.Context, account *models.Account) (*OTP, error) {
	if err := s.checkAccess(); err != nil {
		return nil, err
	}

	plaintext, err := cryptox.DecryptSecret(account.EncryptedSecret, account.SecretNonce, s.masterKey)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(plaintext)

	key, err := totp.DecodeSecret(string(plaintext))
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	now := timeNow()
	return &OTP{Code: totp.Code(key, now), Remaining: totp.Remaining(now)}, nil
}

// OTPByID is CurrentOTP for an entry looked up by id.
func (s *AccountService) OTPByID(ctx context.Context, id int64) (*OTP, error) {
	if err := s.checkAccess(); err != nil {
		return nil, err
	}
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.CurrentOTP(ctx, account)
}
