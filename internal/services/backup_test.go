package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/secure2fa/vault/internal/common"
	"github.com/secure2fa/vault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup_ExportWritesPlaintextSecrets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Add(ctx, "GitHub", "dev@example.com", rfcSecret)
	require.NoError(t, err)
	_, err = env.accounts.Add(ctx, "AWS", "ops@example.com", "JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json")
	n, err := env.backup.Export(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc []models.BackupAccount
	require.NoError(t, json.Unmarshal(data, &doc))

	// GetAll orders by issuer, so AWS comes first.
	want := []models.BackupAccount{
		{Issuer: "AWS", AccountName: "ops@example.com", Secret: "JBSWY3DPEHPK3PXP"},
		{Issuer: "GitHub", AccountName: "dev@example.com", Secret: rfcSecret},
	}
	assert.Empty(t, cmp.Diff(want, doc))
}

func TestBackup_ExportEmptyVault(t *testing.T) {
	env := newTestEnv(t)

	path := filepath.Join(t.TempDir(), "backup.json")
	n, err := env.backup.Export(context.Background(), path)
	require.NoError(t, err)
	assert.Zero(t, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

// One undecryptable row must abort the export before any file is written.
func TestBackup_ExportAbortsOnCorruptEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Add(ctx, "GitHub", "dev@example.com", rfcSecret)
	require.NoError(t, err)

	_, err = env.db.ExecContext(ctx, `UPDATE accounts SET encrypted_secret = X'00010203'`)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json")
	_, err = env.backup.Export(ctx, path)
	assert.ErrorIs(t, err, common.ErrorCrypto)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no partial backup file may exist")
}

func TestBackup_ImportRoundTrip(t *testing.T) {
	src := newTestEnv(t)
	ctx := context.Background()

	_, err := src.accounts.Add(ctx, "GitHub", "dev@example.com", rfcSecret)
	require.NoError(t, err)
	_, err = src.accounts.Add(ctx, "AWS", "ops@example.com", "JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json")
	_, err = src.backup.Export(ctx, path)
	require.NoError(t, err)

	// A different vault with a different master key can still import:
	// secrets travel as plaintext and are re-encrypted on arrival.
	dst := newTestEnv(t)
	for i := range dst.key {
		dst.key[i] ^= 0xFF
	}

	n, err := dst.backup.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	fixTime(t, 59)
	all, err := dst.accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	otp, err := dst.accounts.OTPByID(ctx, all[1].ID) // GitHub, rfcSecret
	require.NoError(t, err)
	assert.Equal(t, "287082", otp.Code)
}

func TestBackup_ImportSkipsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Add(ctx, "GitHub", "dev@example.com", rfcSecret)
	require.NoError(t, err)

	doc := []models.BackupAccount{
		{Issuer: "GitHub", AccountName: "dev@example.com", Secret: rfcSecret},
		{Issuer: "AWS", AccountName: "ops@example.com", Secret: "JBSWY3DPEHPK3PXP"},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	n, err := env.backup.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "the existing entry is skipped, the new one inserted")

	all, err := env.accounts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBackup_ImportRejectsMalformedFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := env.backup.Import(ctx, path)
	assert.ErrorIs(t, err, common.ErrorParse)

	_, err = env.backup.Import(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, common.ErrorIO)
}

func TestBackup_ImportStopsOnInvalidSecret(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc := []models.BackupAccount{
		{Issuer: "AWS", AccountName: "ops@example.com", Secret: "JBSWY3DPEHPK3PXP"},
		{Issuer: "Bad", AccountName: "x", Secret: "not base32 !!!"},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	n, err := env.backup.Import(ctx, path)
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, 1, n, "entries before the failure stay inserted")
}
