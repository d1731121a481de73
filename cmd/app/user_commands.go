package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/rememberme/cmd/app/commands"
	"github.com/allisson/rememberme/internal/app"
	"github.com/allisson/rememberme/internal/config"
)

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create a user account, typically the first administrator",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Login email",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "First name",
				},
				&cli.StringFlag{
					Name:     "surname",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Last name",
				},
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Value:   "admin",
					Usage:   "Role to grant: 'admin' or 'user'",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password (omit to be prompted)",
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

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					userUseCase,
					container.Logger(),
					commands.CreateUserOptions{
						Email:    cmd.String("email"),
						Name:     cmd.String("name"),
						Surname:  cmd.String("surname"),
						Role:     cmd.String("role"),
						Password: cmd.String("password"),
						Format:   cmd.String("format"),
					},
					commands.DefaultIO(),
				)
			},
		},
	}
}
