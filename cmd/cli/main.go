package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amirasaad/cinema/infra"
	"github.com/amirasaad/cinema/infra/initializer"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/service/user"
)

const usage = "Usage: cli <command> [arguments]\nCommands: migrate, promote <email>, demote <email>"

var errUsage = errors.New(usage)

type adminService interface {
	SetAdmin(ctx context.Context, email string, isAdmin bool) (*dto.UserRead, error)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Println("Failed to load configuration:", err)
		os.Exit(1)
	}
	logger := initializer.SetupLogger(cfg.Log)
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		fmt.Println("Failed to connect to database:", err)
		os.Exit(1)
	}
	svc := user.New(infra.NewUoW(db), nil, cfg.Media, logger)
	migrate := func() error { return infra.RunMigrations(db, logger) }

	if err := execute(context.Background(), os.Args[1:], svc, migrate, os.Stdout); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, args []string, svc adminService, migrate func() error, out io.Writer) error {
	switch args[0] {
	case "migrate":
		if err := migrate(); err != nil {
			return fmt.Errorf("error running migrations: %w", err)
		}
		fmt.Fprintln(out, "Migrations applied")
	case "promote", "demote":
		if len(args) < 2 {
			return fmt.Errorf("usage: %s <email>", args[0])
		}
		u, err := svc.SetAdmin(ctx, args[1], args[0] == "promote")
		if err != nil {
			return fmt.Errorf("error updating %s: %w", args[1], err)
		}
		fmt.Fprintf(out, "User %s (%s) admin=%t\n", u.Email, u.ID, u.IsAdmin)
	default:
		return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
	}
	return nil
}
