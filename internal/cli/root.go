package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/secure2fa/vault/internal/services"
)

// Run executes the unlock flow and then the command loop. It returns when
// the user exits, input ends, or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.unlock(ctx); err != nil {
		return err
	}

	a.printHelp()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := a.getSimpleText("vault>")
		if err != nil {
			return nil
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		if cmd == "exit" || cmd == "quit" {
			return nil
		}

		if err := a.dispatch(ctx, cmd, args); err != nil {
			a.printf("error: %v\n", err)
		}
	}
}

// unlock brings the vault to a usable state: first launch offers PIN
// setup, a protected vault asks for the PIN until it matches.
func (a *App) unlock(ctx context.Context) error {
	switch a.pin.State() {
	case services.StateNeedsSetup:
		a.println("No PIN is configured. The vault opens without one;")
		a.println("use 'setpin' to protect it.")
		return nil

	case services.StateLocked:
		for {
			pin, err := a.getPIN("PIN")
			if err != nil {
				return err
			}
			ok, err := a.pin.VerifyPin(ctx, pin)
			if err != nil {
				return err
			}
			if ok {
				a.println("Unlocked.")
				return nil
			}
			a.println("Incorrect PIN.")
		}

	default:
		return nil
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list", "ls":
		return a.cmdList(ctx)
	case "add":
		return a.cmdAdd(ctx)
	case "otp":
		return a.cmdOTP(ctx, args)
	case "watch":
		return a.cmdWatch(ctx)
	case "update":
		return a.cmdUpdate(ctx, args)
	case "delete", "rm":
		return a.cmdDelete(ctx, args)
	case "scan":
		return a.cmdScan(ctx)
	case "export":
		return a.cmdExport(ctx, args)
	case "import":
		return a.cmdImport(ctx, args)
	case "setpin":
		return a.cmdSetPin(ctx)
	case "removepin":
		return a.cmdRemovePin(ctx)
	case "help":
		a.printHelp()
		return nil
	default:
		return errors.New("unknown command, try 'help'")
	}
}

func (a *App) printHelp() {
	a.println(`Commands:
  list              show all accounts
  add               add an account (manual secret entry)
  scan              add an account from a QR code or otpauth URI
  otp <id>          show the current code for an account
  watch             live view of all codes (Ctrl+C to stop)
  update <id>       rename an account
  delete <id>       remove an account
  export <path>     write a plaintext JSON backup
  import <path>     restore accounts from a backup
  setpin            set or change the PIN
  removepin         remove the PIN
  help              this text
  exit              quit`)
}

// idArg parses the single numeric id argument commands like otp/delete take.
func idArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected an account id, e.g. 'otp 3'")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, errors.New("account id must be a number")
	}
	return id, nil
}
