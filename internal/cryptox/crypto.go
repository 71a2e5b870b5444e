// Package cryptox implements the vault's two independent cryptographic
// concerns: authenticated encryption of TOTP secrets under the device
// master key (AES-256-GCM) and PIN verification material derived with
// PBKDF2-HMAC-SHA-256. The PIN never participates in secret encryption;
// it only gates access.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"

	"github.com/secure2fa/vault/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the AES-256 master key length in bytes.
	KeySize = 32

	// NonceSize is the GCM nonce length in bytes. A fresh random nonce is
	// generated per encryption and stored next to the ciphertext.
	NonceSize = 12

	// SaltSize is the PIN salt length in bytes.
	SaltSize = 16

	// PinIterations is the PBKDF2 iteration count fixed at PIN setup.
	// Never lowered after the fact.
	PinIterations = 100_000

	// PinHashSize is the derived PIN verifier length in bytes.
	PinHashSize = 32
)

// DerivePinHash derives the PIN verifier from pin, salt and iterations
// using PBKDF2 with an HMAC-SHA-256 core. Deterministic and
// side-effect-free: equal inputs always yield equal outputs.
//
// The result is only ever compared against the stored verifier; it is not
// an encryption key.
func DerivePinHash(pin []byte, salt []byte, iterations int) []byte {
	return pbkdf2.Key(pin, salt, iterations, PinHashSize, sha256.New)
}

// EncryptSecret encrypts a plaintext TOTP secret under the master key with
// AES-256-GCM. The random 12-byte nonce is returned separately and must be
// persisted alongside the ciphertext.
func EncryptSecret(plaintext []byte, key []byte) (ciphertext, nonce []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("new cipher: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("new gcm: %w", err)
	}

	nonce = common.GenerateRandByteArray(NonceSize)
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// DecryptSecret reverses EncryptSecret. Any tag mismatch (tampering, wrong
// key, corrupted ciphertext or nonce) yields common.ErrorCrypto, never
// partial plaintext.
func DecryptSecret(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	if len(nonce) != aesgcm.NonceSize() {
		return nil, fmt.Errorf("invalid nonce length %d: %w", len(nonce), common.ErrorCrypto)
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("open ciphertext: %w", common.ErrorCrypto)
	}

	return plaintext, nil
}
