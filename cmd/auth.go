package cmd

import (
	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored router credential",
	}

	cmd.AddCommand(
		newAuthSetCmd(app),
		newAuthRemoveCmd(app),
	)

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the router password in the secret store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.secretStore.Put(cmd.Context(), routerPasswordKey, password)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "router password (required)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Forget the stored router password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.secretStore.Delete(cmd.Context(), routerPasswordKey)
		},
	}
}
