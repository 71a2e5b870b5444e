// Package cli implements the interactive terminal client: a PIN unlock
// flow followed by a small command loop over the vault services.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/secure2fa/vault/internal/common"
	"github.com/secure2fa/vault/internal/config"
	"github.com/secure2fa/vault/internal/cryptox"
	"github.com/secure2fa/vault/internal/filex"
	"github.com/secure2fa/vault/internal/logging"
	"github.com/secure2fa/vault/internal/qr"
	"github.com/secure2fa/vault/internal/repositories/accounts"
	"github.com/secure2fa/vault/internal/services"
	"github.com/secure2fa/vault/internal/storage"
)

// App wires configuration, storage, and services together behind the
// command loop. The qr source may be nil; the scan command then falls
// back to pasting the otpauth URI.
type App struct {
	cfg *config.Config
	log logging.Logger
	qr  qr.Source

	db        *sql.DB
	masterKey []byte
	pin       *services.PinService
	accounts  *services.AccountService
	backup    *services.BackupService

	in  *bufio.Scanner
	out io.Writer
}

func NewApp(cfg *config.Config, log logging.Logger, qrSource qr.Source) *App {
	return &App{
		cfg: cfg,
		log: log,
		qr:  qrSource,
		in:  bufio.NewScanner(os.Stdin),
		out: os.Stdout,
	}
}

// Init prepares the data directory, opens the database, loads the master
// key, and constructs the services.
func (a *App) Init(ctx context.Context) error {
	if _, err := filex.EnsureDir(a.cfg.DataDir); err != nil {
		return fmt.Errorf("preparing data dir: %w", err)
	}

	db, err := storage.InitDatabase(ctx, a.cfg.DatabasePath())
	if err != nil {
		return err
	}
	a.db = db

	key, err := cryptox.LoadOrCreateMasterKey(a.cfg.DataDir)
	if err != nil {
		db.Close()
		return err
	}
	a.masterKey = key

	a.pin = services.NewPinService(db, a.log)
	if err := a.pin.Init(ctx); err != nil {
		db.Close()
		return err
	}

	repo := accounts.NewSQLiteRepository(db)
	a.accounts = services.NewAccountService(repo, a.pin, key, a.log)
	a.backup = services.NewBackupService(repo, a.accounts, a.pin, key, a.log)

	a.log.Debug(ctx, "app initialized", "db", a.cfg.DatabasePath())
	return nil
}

// Close releases the database and wipes the in-memory master key.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	common.WipeByteArray(a.masterKey)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
