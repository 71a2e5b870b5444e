package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/secure2fa/vault/internal/cryptox"
	"github.com/secure2fa/vault/internal/logging"
	"github.com/secure2fa/vault/internal/repositories/accounts"
	"github.com/secure2fa/vault/internal/storage"
	"github.com/stretchr/testify/require"
)

// rfcSecret is the RFC 6238 reference secret "12345678901234567890" in base32.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

type testEnv struct {
	db       *sql.DB
	key      []byte
	pin      *PinService
	accounts *AccountService
	backup   *BackupService
	repo     *accounts.SQLiteRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := storage.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	key := bytes.Repeat([]byte{0x42}, cryptox.KeySize)

	pin := NewPinService(db, log)
	require.NoError(t, pin.Init(ctx))

	repo := accounts.NewSQLiteRepository(db)
	svc := NewAccountService(repo, pin, key, log)
	bak := NewBackupService(repo, svc, pin, key, log)

	return &testEnv{db: db, key: key, pin: pin, accounts: svc, backup: bak, repo: repo}
}

// fixTime pins the TOTP clock for the duration of the test.
func fixTime(t *testing.T, unix int64) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return time.Unix(unix, 0).UTC() }
	t.Cleanup(func() { timeNow = prev })
}
