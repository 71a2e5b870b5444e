package cli

import (
	"context"
	"errors"
)

func (a *App) cmdSetPin(ctx context.Context) error {
	// Changing an existing PIN requires knowing the current one.
	hasPin, err := a.pin.HasPin(ctx)
	if err != nil {
		return err
	}
	if hasPin {
		current, err := a.getPIN("Current PIN")
		if err != nil {
			return err
		}
		ok, err := a.pin.VerifyPin(ctx, current)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("incorrect PIN")
		}
	}

	pin, err := a.getPIN("New PIN (4 digits)")
	if err != nil {
		return err
	}
	confirm, err := a.getPIN("Repeat PIN")
	if err != nil {
		return err
	}
	if pin != confirm {
		return errors.New("PINs do not match")
	}

	if err := a.pin.SetPin(ctx, pin); err != nil {
		return err
	}
	a.println("PIN set.")
	return nil
}

func (a *App) cmdRemovePin(ctx context.Context) error {
	hasPin, err := a.pin.HasPin(ctx)
	if err != nil {
		return err
	}
	if !hasPin {
		a.println("No PIN is configured.")
		return nil
	}

	current, err := a.getPIN("Current PIN")
	if err != nil {
		return err
	}

	if err := a.pin.RemovePin(ctx, current); err != nil {
		return err
	}
	a.println("PIN removed. The vault now opens without one.")
	return nil
}
