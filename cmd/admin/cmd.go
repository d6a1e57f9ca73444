package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/eduplatform/teacher-store/internal/config"
	"github.com/eduplatform/teacher-store/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	auth *service.AuthService
	seed config.SeedConfig
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  seed                                - create or reset the administrator from SEED_ADMIN_* settings")
	fmt.Fprintln(cli.out, "  create-admin -email EMAIL -name NAME - create an administrator; the password is prompted next")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createAdminCmd := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	createAdminCmd.SetOutput(cli.out)
	createAdminEmail := createAdminCmd.String("email", "", "The administrator's email.")
	createAdminName := createAdminCmd.String("name", "Administrator", "The administrator's display name.")

	switch args[1] {
	case "seed":
		return cli.seedAdmin(ctx)
	case "create-admin":
		if err := createAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createAdminEmail == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			createAdminCmd.Usage()
			return errHelp
		}
		return cli.createAdmin(ctx, *createAdminEmail, *createAdminName, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) seedAdmin(ctx context.Context) error {
	if cli.seed.AdminPassword == "" {
		return errors.New("SEED_ADMIN_PASSWORD is required")
	}
	admin, created, err := cli.auth.ProvisionAdmin(ctx, service.AdminInput{
		Email:    cli.seed.AdminEmail,
		Name:     cli.seed.AdminName,
		Password: cli.seed.AdminPassword,
	}, true)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cli.out, "admin %s created\n", admin.Email)
	} else {
		fmt.Fprintf(cli.out, "admin %s updated\n", admin.Email)
	}
	return nil
}

func (cli *commandLine) createAdmin(ctx context.Context, email, name, password string) error {
	admin, _, err := cli.auth.ProvisionAdmin(ctx, service.AdminInput{Email: email, Name: name, Password: password}, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "admin %s created\n", admin.Email)
	return nil
}
