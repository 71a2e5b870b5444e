package cli

import (
	"context"
)

func (a *App) cmdList(ctx context.Context) error {
	all, err := a.accounts.List(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		a.println("The vault is empty. Use 'add' or 'scan'.")
		return nil
	}

	a.printf("%4s  %-20s  %s\n", "ID", "ISSUER", "ACCOUNT")
	for _, acc := range all {
		a.printf("%4d  %-20s  %s\n", acc.ID, acc.Issuer, acc.AccountName)
	}
	return nil
}

func (a *App) cmdAdd(ctx context.Context) error {
	issuer, err := a.getSimpleText("Issuer")
	if err != nil {
		return err
	}
	name, err := a.getSimpleText("Account name")
	if err != nil {
		return err
	}
	secret, err := a.getSimpleText("Secret (base32)")
	if err != nil {
		return err
	}

	added, err := a.accounts.Add(ctx, issuer, name, secret)
	if err != nil {
		return err
	}
	a.printf("Added %s (%s) with id %d.\n", added.Issuer, added.AccountName, added.ID)
	return nil
}

func (a *App) cmdOTP(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	otp, err := a.accounts.OTPByID(ctx, id)
	if err != nil {
		return err
	}
	a.printf("%s  (valid for %ds)\n", otp.Code, otp.Remaining)
	return nil
}

func (a *App) cmdUpdate(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	current, err := a.accounts.Get(ctx, id)
	if err != nil {
		return err
	}

	issuer, err := a.getSimpleText("Issuer [" + current.Issuer + "]")
	if err != nil {
		return err
	}
	if issuer == "" {
		issuer = current.Issuer
	}
	name, err := a.getSimpleText("Account name [" + current.AccountName + "]")
	if err != nil {
		return err
	}
	if name == "" {
		name = current.AccountName
	}

	if err := a.accounts.Update(ctx, id, issuer, name); err != nil {
		return err
	}
	a.println("Updated.")
	return nil
}

func (a *App) cmdDelete(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	account, err := a.accounts.Get(ctx, id)
	if err != nil {
		return err
	}

	answer, err := a.getSimpleText("Delete " + account.Issuer + " (" + account.AccountName + ")? [y/N]")
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		a.println("Cancelled.")
		return nil
	}

	if err := a.accounts.Delete(ctx, id); err != nil {
		return err
	}
	a.println("Deleted.")
	return nil
}
