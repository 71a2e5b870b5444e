package cli

import (
	"context"
	"time"

	"github.com/secure2fa/vault/internal/totp"
)

// cmdWatch shows a live view of all codes. The loop ticks at the
// configured refresh interval but decrypts only when the 30-second step
// counter changes, so each secret is decrypted at most once per window.
func (a *App) cmdWatch(ctx context.Context) error {
	all, err := a.accounts.List(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		a.println("The vault is empty, nothing to watch.")
		return nil
	}

	a.println("Watching codes, Ctrl+C to stop.")

	ticker := time.NewTicker(a.cfg.RefreshInterval.Duration)
	defer ticker.Stop()

	var lastStep int64 = -1
	for {
		if step := totp.StepCounter(time.Now()); step != lastStep {
			lastStep = step
			if err := a.printCodes(ctx); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			a.println()
			return nil
		case <-ticker.C:
		}
	}
}

func (a *App) printCodes(ctx context.Context) error {
	all, err := a.accounts.List(ctx)
	if err != nil {
		return err
	}

	a.println()
	for _, acc := range all {
		otp, err := a.accounts.CurrentOTP(ctx, &acc)
		if err != nil {
			a.printf("%4d  %-20s  <%v>\n", acc.ID, acc.Issuer, err)
			continue
		}
		a.printf("%4d  %-20s  %s  (%2ds)\n", acc.ID, acc.Issuer, otp.Code, otp.Remaining)
	}
	return nil
}
