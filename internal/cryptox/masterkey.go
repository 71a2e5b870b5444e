package cryptox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/secure2fa/vault/internal/common"
)

const masterKeyFile = "master.key"

// LoadOrCreateMasterKey returns the device master key stored in dir,
// generating and persisting a fresh random 32-byte key on first run.
//
// The key lives in its own file, separate from the account database, so
// editing accounts can never clobber it. It has no PIN dependency: setting,
// changing or removing the PIN leaves this key, and therefore every stored
// ciphertext, untouched.
func LoadOrCreateMasterKey(dir string) ([]byte, error) {
	path := filepath.Join(dir, masterKeyFile)

	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != KeySize {
			return nil, fmt.Errorf("master key file %s has size %d, want %d: %w",
				path, len(key), KeySize, common.ErrorCrypto)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read master key: %w", err)
	}

	key = common.GenerateRandByteArray(KeySize)
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("write master key: %w", err)
	}
	return key, nil
}
