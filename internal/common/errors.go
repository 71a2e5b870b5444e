// Package common defines shared constants and sentinel errors used across
// the vault core and the CLI. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Validation of user-supplied input (PIN format, base32 secrets,
	// empty issuer/account name).
	ErrorValidation = errors.New("validation error")

	// Wrong PIN, or an operation attempted while the vault is locked.
	ErrorAuthentication = errors.New("incorrect PIN")

	// AEAD tag mismatch or corrupted ciphertext/nonce. Decryption fails
	// closed; no partial plaintext is ever returned alongside this error.
	ErrorCrypto = errors.New("decryption failed")

	// Malformed otpauth URI or backup document.
	ErrorParse = errors.New("parse error")

	// Storage or file-system failure.
	ErrorIO = errors.New("i/o error")
)
