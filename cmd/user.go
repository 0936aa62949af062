package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/H0sin/mikroman/internal/adapters/render/userstatus"
	"github.com/H0sin/mikroman/internal/application"
)

func newUserCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect and manage User Manager accounts",
	}

	cmd.AddCommand(
		newUserListCmd(app),
		newUserGetCmd(app),
		newUserRemoveCmd(app),
		newUserEnableCmd(app),
		newUserDisableCmd(app),
	)

	return cmd
}

func newUserListCmd(app *app) *cobra.Command {
	var showAttributes bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all accounts with their plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := app.query.ListUserStatuses(cmd.Context())
			if err != nil {
				return err
			}

			return renderStatuses(cmd, app, statuses, showAttributes)
		},
	}

	cmd.Flags().BoolVar(&showAttributes, "attributes", false, "show decoded RADIUS attributes")

	return cmd
}

func newUserGetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show one account with its plans and attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.query.GetUserStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderStatuses(cmd, app, []application.UserStatus{status}, true)
		},
	}
}

func newUserRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete an account from the router",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.provision.RemoveUser(cmd.Context(), args[0])
		},
	}
}

func newUserEnableCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "enable <name>",
		Short: "Re-enable a disabled account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.provision.SetUserDisabled(cmd.Context(), args[0], false)
		},
	}
}

func newUserDisableCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <name>",
		Short: "Disable an account without deleting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.provision.SetUserDisabled(cmd.Context(), args[0], true)
		},
	}
}

func renderStatuses(cmd *cobra.Command, app *app, statuses []application.UserStatus, showAttributes bool) error {
	output, err := app.statusRenderer(statuses, userstatus.RenderOptions{ShowAttributes: showAttributes})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
