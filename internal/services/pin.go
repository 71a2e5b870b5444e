// Package services contains the application services of the vault: the PIN
// gate, account management with per-secret encryption, and the backup codec.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	"github.com/secure2fa/vault/internal/common"
	"github.com/secure2fa/vault/internal/cryptox"
	"github.com/secure2fa/vault/internal/dbx"
	"github.com/secure2fa/vault/internal/logging"
	"github.com/secure2fa/vault/internal/repositories/settings"
)

// LockState is the process-wide vault lock state. It is never persisted:
// every process start re-derives it from whether a PIN verifier exists.
type LockState int

const (
	StateUninitialized LockState = iota
	StateNeedsSetup
	StateLocked
	StateUnlocked
)

func (s LockState) String() string {
	switch s {
	case StateNeedsSetup:
		return "needs-setup"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	default:
		return "uninitialized"
	}
}

// Settings keys holding the PIN verifier. Absence of pin_hash means
// "no PIN configured".
const (
	keyPinHash       = "pin_hash"
	keyPinSalt       = "pin_salt"
	keyPinIterations = "pin_iterations"
)

// PinService owns the stored PIN verifier and the in-memory lock state.
// It is an explicit, injectable object: every vault operation checks it
// through the service that holds it rather than reading ambient globals.
//
// The PIN gates access only. It has no influence on the master key or on
// any stored ciphertext, so changing or removing it never re-encrypts.
type PinService struct {
	db       *sql.DB
	settings settings.Repository
	log      logging.Logger

	mu    sync.Mutex
	state LockState
}

func NewPinService(db *sql.DB, log logging.Logger) *PinService {
	return &PinService{
		db:       db,
		settings: settings.NewSQLiteRepository(db),
		log:      log,
		state:    StateUninitialized,
	}
}

// Init derives the initial lock state: Locked when a verifier exists,
// NeedsSetup otherwise.
func (s *PinService) Init(ctx context.Context) error {
	hasPin, err := s.HasPin(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if hasPin {
		s.state = StateLocked
	} else {
		s.state = StateNeedsSetup
	}
	s.log.Debug(ctx, "pin gate initialized", "state", s.state.String())
	return nil
}

// State returns the current lock state.
func (s *PinService) State() LockState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CanAccess reports whether vault operations may proceed. A vault without
// a configured PIN is open by definition.
func (s *PinService) CanAccess() bool {
	st := s.State()
	return st == StateUnlocked || st == StateNeedsSetup
}

func (s *PinService) setState(state LockState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// HasPin reports whether a PIN verifier is persisted.
func (s *PinService) HasPin(ctx context.Context) (bool, error) {
	hash, err := s.settings.Get(ctx, keyPinHash)
	if err != nil {
		return false, err
	}
	return hash != nil, nil
}

// validatePinFormat enforces the UI contract: exactly four ASCII digits.
func validatePinFormat(pin string) error {
	if len(pin) != 4 {
		return fmt.Errorf("PIN must be 4 digits: %w", common.ErrorValidation)
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return fmt.Errorf("PIN must be 4 digits: %w", common.ErrorValidation)
		}
	}
	return nil
}

// SetPin configures or replaces the PIN: a fresh random salt is generated,
// the verifier is derived and stored, and the vault transitions to
// Unlocked. PIN change is the same operation: the old verifier is simply
// overwritten. Change-flow UIs that want old-PIN confirmation call
// VerifyPin themselves first.
func (s *PinService) SetPin(ctx context.Context, pin string) error {
	if err := validatePinFormat(pin); err != nil {
		return err
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	hash := cryptox.DerivePinHash([]byte(pin), salt, cryptox.PinIterations)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyPinHash, hash); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyPinSalt, salt); err != nil {
			return err
		}
		return repo.Set(ctx, keyPinIterations, []byte(strconv.Itoa(cryptox.PinIterations)))
	})
	if err != nil {
		return fmt.Errorf("saving PIN verifier: %w", err)
	}

	s.setState(StateUnlocked)
	s.log.Info(ctx, "pin configured")
	return nil
}

// VerifyPin re-derives the verifier using the stored salt and iteration
// count and compares it in constant time. A mismatch returns false, not an
// error; no PIN configured also returns false. On success the vault
// transitions to Unlocked.
func (s *PinService) VerifyPin(ctx context.Context, pin string) (bool, error) {
	savedHash, err := s.settings.Get(ctx, keyPinHash)
	if err != nil {
		return false, err
	}
	savedSalt, err := s.settings.Get(ctx, keyPinSalt)
	if err != nil {
		return false, err
	}
	if savedHash == nil || savedSalt == nil {
		return false, nil
	}

	iterations := cryptox.PinIterations
	if raw, err := s.settings.Get(ctx, keyPinIterations); err == nil && raw != nil {
		if n, err := strconv.Atoi(string(raw)); err == nil && n > 0 {
			iterations = n
		}
	}

	candidate := cryptox.DerivePinHash([]byte(pin), savedSalt, iterations)
	if subtle.ConstantTimeCompare(savedHash, candidate) == 0 {
		return false, nil
	}

	s.setState(StateUnlocked)
	return true, nil
}

// RemovePin verifies the current PIN, deletes the verifier, and leaves the
// vault permanently unlocked. No PIN is required on the next launch; the
// master key and account rows are untouched.
func (s *PinService) RemovePin(ctx context.Context, currentPin string) error {
	ok, err := s.VerifyPin(ctx, currentPin)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorAuthentication
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		for _, key := range []string{keyPinHash, keyPinSalt, keyPinIterations} {
			if err := repo.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("removing PIN verifier: %w", err)
	}

	s.setState(StateUnlocked)
	s.log.Info(ctx, "pin removed")
	return nil
}
