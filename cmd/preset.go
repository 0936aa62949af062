package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/H0sin/mikroman/internal/domain"
)

func newPresetCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage local plan presets",
	}

	cmd.AddCommand(
		newPresetListCmd(app),
		newPresetAddCmd(app),
		newPresetRemoveCmd(app),
	)

	return cmd
}

func newPresetListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets, err := app.presets.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, preset := range presets {
				names := domain.DerivePlanNames(preset.Days, preset.CapGiB, preset.Seats, preset.Start)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", preset.Name, names.Profile)
			}

			return nil
		},
	}
}

func newPresetAddCmd(app *app) *cobra.Command {
	preset := domain.PlanPreset{}
	var start string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Store or overwrite a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset.Name = args[0]
			preset.Start = domain.StartPolicy(start)
			if !preset.Start.Valid() {
				return fmt.Errorf("unsupported start policy %q", start)
			}

			return app.presets.Save(cmd.Context(), preset)
		},
	}

	cmd.Flags().IntVar(&preset.Days, "days", 0, "plan duration in days (0 = unlimited)")
	cmd.Flags().IntVar(&preset.CapGiB, "cap-gib", 0, "transfer cap in GiB (0 = unlimited)")
	cmd.Flags().IntVar(&preset.Seats, "seats", 1, "concurrent sessions allowed")
	cmd.Flags().StringVar(&start, "start", string(domain.StartAssigned), "start policy: assigned or deferred")
	cmd.Flags().StringVar(&preset.RateLimit, "rate-limit", "", "Mikrotik rate limit, e.g. 10M/10M")
	cmd.Flags().StringVar(&preset.StaticIP, "static-ip", "", "framed IP address")

	return cmd
}

func newPresetRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete a stored preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.presets.Remove(cmd.Context(), args[0])
		},
	}
}
