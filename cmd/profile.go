package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect User Manager profiles",
	}

	cmd.AddCommand(newProfileListCmd(app))

	return cmd
}

func newProfileListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles on the router",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := app.query.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}

			for _, profile := range profiles {
				validity := profile.Validity
				if validity == "" {
					validity = "unlimited"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tvalidity=%s\tstarts=%s\n",
					profile.ID, profile.Name, validity, profile.StartsWhen)
			}

			return nil
		},
	}
}

func newLimitationCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limitation",
		Short: "Inspect User Manager limitations",
	}

	cmd.AddCommand(newLimitationListCmd(app))

	return cmd
}

func newLimitationListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List limitations on the router",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limitations, err := app.query.ListLimitations(cmd.Context())
			if err != nil {
				return err
			}

			for _, limitation := range limitations {
				transfer := limitation.TransferLimit
				if transfer == "" {
					transfer = "unlimited"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\ttransfer=%s\n",
					limitation.ID, limitation.Name, transfer)
			}

			return nil
		},
	}
}
