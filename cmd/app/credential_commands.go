package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/rememberme/cmd/app/commands"
	"github.com/allisson/rememberme/internal/app"
	"github.com/allisson/rememberme/internal/config"
)

func getCredentialCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-expired-credentials",
			Usage: "Delete remember-me credentials past their expiry",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many credentials would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				engine, err := container.RotationEngine()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredCredentials(
					ctx,
					engine,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "revoke-credentials",
			Usage: "Log a user out everywhere by deleting all their credentials and sessions",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "user-id",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "User ID (UUID)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				identityUseCase, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeCredentials(
					ctx,
					identityUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("user-id"),
					cmd.String("format"),
				)
			},
		},
	}
}
