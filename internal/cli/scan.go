package cli

import (
	"context"
	"errors"

	"github.com/secure2fa/vault/internal/otpauth"
	"github.com/secure2fa/vault/internal/qr"
)

// cmdScan adds an account from an otpauth URI. With a capture backend
// wired in it grabs the screen and decodes the QR code; without one it
// asks for the URI to be pasted.
func (a *App) cmdScan(ctx context.Context) error {
	uri, err := a.obtainURI(ctx)
	if err != nil {
		return err
	}

	info, err := otpauth.Parse(uri)
	if err != nil {
		return err
	}

	issuer := info.Issuer
	if issuer == "" {
		issuer, err = a.getSimpleText("Issuer (not present in the code)")
		if err != nil {
			return err
		}
	}

	added, err := a.accounts.Add(ctx, issuer, info.AccountName, info.Secret)
	if err != nil {
		return err
	}
	a.printf("Added %s (%s) with id %d.\n", added.Issuer, added.AccountName, added.ID)
	return nil
}

func (a *App) obtainURI(ctx context.Context) (string, error) {
	if a.qr == nil {
		return a.getSimpleText("otpauth URI")
	}

	img, err := a.qr.Capture(ctx)
	if errors.Is(err, qr.ErrUnavailable) {
		a.println("Screen capture is unavailable, paste the URI instead.")
		return a.getSimpleText("otpauth URI")
	}
	if err != nil {
		return "", err
	}

	uri, err := a.qr.DecodeAuto(ctx, img)
	if err != nil {
		return "", err
	}
	return uri, nil
}
