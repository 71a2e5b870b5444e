package cli

import (
	"context"
	"errors"
)

func backupPathArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected a file path, e.g. 'export backup.json'")
	}
	return args[0], nil
}

func (a *App) cmdExport(ctx context.Context, args []string) error {
	path, err := backupPathArg(args)
	if err != nil {
		return err
	}

	a.println("Warning: the backup contains all secrets in plaintext.")
	answer, err := a.getSimpleText("Continue? [y/N]")
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		a.println("Cancelled.")
		return nil
	}

	n, err := a.backup.Export(ctx, path)
	if err != nil {
		return err
	}
	a.printf("Exported %d account(s) to %s.\n", n, path)
	return nil
}

func (a *App) cmdImport(ctx context.Context, args []string) error {
	path, err := backupPathArg(args)
	if err != nil {
		return err
	}

	n, err := a.backup.Import(ctx, path)
	if err != nil {
		return err
	}
	a.printf("Imported %d account(s) from %s.\n", n, path)
	return nil
}
