// Package models defines the persistent data structures of the vault.
package models

import "time"

// Account is one stored TOTP account. The secret is kept encrypted at rest;
// EncryptedSecret and SecretNonce are written once at creation and never
// change afterwards; metadata edits do not re-encrypt.
//
// (Issuer, AccountName) is unique across the store.
type Account struct {
	ID              int64
	Issuer          string
	AccountName     string
	EncryptedSecret []byte
	SecretNonce     []byte
	SyncID          string
	CreatedAt       time.Time
}
