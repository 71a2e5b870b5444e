package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/secure2fa/vault/internal/config"
	"github.com/secure2fa/vault/internal/logging"
	"github.com/secure2fa/vault/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func newTestApp(t *testing.T, dataDir, input string) (*App, *bytes.Buffer) {
	t.Helper()

	prev := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = prev })

	cfg := &config.Config{
		DataDir:         dataDir,
		DatabaseFile:    "vault.db",
		RefreshInterval: timex.Duration{Duration: time.Second},
		LogLevel:        "info",
	}
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	app := NewApp(cfg, log, nil)
	require.NoError(t, app.Init(context.Background()))
	t.Cleanup(app.Close)

	out := &bytes.Buffer{}
	app.in = bufio.NewScanner(strings.NewReader(input))
	app.out = out
	return app, out
}

func TestInit_CreatesDataDirAndKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "vault")
	newTestApp(t, dir, "")

	_, err := os.Stat(filepath.Join(dir, "vault.db"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "master.key"))
	assert.NoError(t, err)
}

func TestCmdAddAndList(t *testing.T) {
	app, out := newTestApp(t, t.TempDir(), "GitHub\ndev@example.com\n"+rfcSecret+"\n")
	ctx := context.Background()

	require.NoError(t, app.cmdAdd(ctx))
	assert.Contains(t, out.String(), "Added GitHub (dev@example.com)")

	out.Reset()
	require.NoError(t, app.cmdList(ctx))
	assert.Contains(t, out.String(), "GitHub")
	assert.Contains(t, out.String(), "dev@example.com")
	assert.NotContains(t, out.String(), rfcSecret, "list never shows secrets")
}

func TestCmdOTP(t *testing.T) {
	app, out := newTestApp(t, t.TempDir(), "")
	ctx := context.Background()

	added, err := app.accounts.Add(ctx, "GitHub", "dev@example.com", rfcSecret)
	require.NoError(t, err)

	require.NoError(t, app.cmdOTP(ctx, []string{strconv.FormatInt(added.ID, 10)}))
	assert.Regexp(t, regexp.MustCompile(`^\d{6}  \(valid for \d+s\)`), out.String())

	assert.Error(t, app.cmdOTP(ctx, nil))
	assert.Error(t, app.cmdOTP(ctx, []string{"nope"}))
}

func TestCmdDelete_RequiresConfirmation(t *testing.T) {
	app, out := newTestApp(t, t.TempDir(), "n\ny\n")
	ctx := context.Background()

	added, err := app.accounts.Add(ctx, "GitHub", "dev@example.com", rfcSecret)
	require.NoError(t, err)

	require.NoError(t, app.cmdDelete(ctx, []string{"1"}))
	assert.Contains(t, out.String(), "Cancelled.")

	require.NoError(t, app.cmdDelete(ctx, []string{"1"}))
	assert.Contains(t, out.String(), "Deleted.")

	_, err = app.accounts.Get(ctx, added.ID)
	assert.Error(t, err)
}

func TestCmdScan_PasteFallback(t *testing.T) {
	uri := "otpauth://totp/GitHub:dev@example.com?secret=" + rfcSecret + "&issuer=GitHub"
	app, out := newTestApp(t, t.TempDir(), uri+"\n")

	require.NoError(t, app.cmdScan(context.Background()))
	assert.Contains(t, out.String(), "Added GitHub (dev@example.com)")
}

func TestCmdScan_PromptsForMissingIssuer(t *testing.T) {
	uri := "otpauth://totp/dev@example.com?secret=" + rfcSecret
	app, out := newTestApp(t, t.TempDir(), uri+"\nGitHub\n")

	require.NoError(t, app.cmdScan(context.Background()))
	assert.Contains(t, out.String(), "Added GitHub (dev@example.com)")
}

func TestCmdExportImport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	app, out := newTestApp(t, t.TempDir(), "y\n")
	ctx := context.Background()

	_, err := app.accounts.Add(ctx, "GitHub", "dev@example.com", rfcSecret)
	require.NoError(t, err)

	require.NoError(t, app.cmdExport(ctx, []string{path}))
	assert.Contains(t, out.String(), "Exported 1 account(s)")

	other, out2 := newTestApp(t, t.TempDir(), "")
	require.NoError(t, other.cmdImport(ctx, []string{path}))
	assert.Contains(t, out2.String(), "Imported 1 account(s)")
}

func TestUnlock_LockedVaultLoopsUntilCorrectPIN(t *testing.T) {
	dir := t.TempDir()

	first, _ := newTestApp(t, dir, "")
	require.NoError(t, first.pin.SetPin(context.Background(), "4821"))
	first.Close()

	app, out := newTestApp(t, dir, "9999\n4821\n")
	require.NoError(t, app.unlock(context.Background()))

	assert.Contains(t, out.String(), "Incorrect PIN.")
	assert.Contains(t, out.String(), "Unlocked.")
}

func TestUnlock_FreshVaultSuggestsSetpin(t *testing.T) {
	app, out := newTestApp(t, t.TempDir(), "")
	require.NoError(t, app.unlock(context.Background()))
	assert.Contains(t, out.String(), "No PIN is configured.")
}

func TestDispatch_UnknownCommand(t *testing.T) {
	app, _ := newTestApp(t, t.TempDir(), "")
	err := app.dispatch(context.Background(), "frobnicate", nil)
	assert.ErrorContains(t, err, "unknown command")
}

func TestRun_ExitCommand(t *testing.T) {
	app, out := newTestApp(t, t.TempDir(), "help\nexit\n")
	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Commands:")
}

func TestGetSimpleText_Trims(t *testing.T) {
	app, _ := newTestApp(t, t.TempDir(), "  hello  \n")
	got, err := app.getSimpleText("prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestGetPIN_FallsBackWithoutTerminal(t *testing.T) {
	app, _ := newTestApp(t, t.TempDir(), "4821\n")
	got, err := app.getPIN("PIN")
	require.NoError(t, err)
	assert.Equal(t, "4821", got)
}
