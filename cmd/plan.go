package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/H0sin/mikroman/internal/application"
	"github.com/H0sin/mikroman/internal/domain"
)

type planFlags struct {
	user      string
	password  string
	preset    string
	days      int
	capGiB    int
	seats     int
	start     string
	rateLimit string
	staticIP  string
}

func newPlanCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Provision and renew account plans",
	}

	cmd.AddCommand(
		newPlanApplyCmd(app),
		newPlanRenewCmd(app),
	)

	return cmd
}

func newPlanApplyCmd(app *app) *cobra.Command {
	flags := &planFlags{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision a plan for an account, creating whatever is missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			planCmd, err := buildPlanCommand(cmd, app, flags)
			if err != nil {
				return err
			}

			err = runTaskSpinner(cmd.Context(), cmd.ErrOrStderr(), "Applying plan...", func(ctx context.Context) error {
				return app.provision.ApplyPlan(ctx, planCmd)
			})
			if err != nil {
				return err
			}

			names := domain.DerivePlanNames(planCmd.Days, planCmd.CapGiB, planCmd.Seats, planCmd.Start)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "applied plan %s to %s\n", names.Profile, planCmd.Username)
			return nil
		},
	}

	registerPlanFlags(cmd, flags)

	return cmd
}

func newPlanRenewCmd(app *app) *cobra.Command {
	flags := &planFlags{}
	var bestEffort bool

	cmd := &cobra.Command{
		Use:   "renew",
		Short: "Detach an account from its plans and provision a fresh one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			planCmd, err := buildPlanCommand(cmd, app, flags)
			if err != nil {
				return err
			}

			renew := app.provision.RenewPlan
			if bestEffort {
				renew = app.provision.RenewPlanBestEffort
			}

			err = runTaskSpinner(cmd.Context(), cmd.ErrOrStderr(), "Renewing plan...", func(ctx context.Context) error {
				return renew(ctx, planCmd)
			})
			if err != nil {
				return err
			}

			names := domain.DerivePlanNames(planCmd.Days, planCmd.CapGiB, planCmd.Seats, planCmd.Start)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "renewed %s onto plan %s\n", planCmd.Username, names.Profile)
			return nil
		},
	}

	registerPlanFlags(cmd, flags)
	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "tolerate unlink failures while detaching old plans")

	return cmd
}

func registerPlanFlags(cmd *cobra.Command, flags *planFlags) {
	cmd.Flags().StringVar(&flags.user, "user", "", "account name (required)")
	cmd.Flags().StringVar(&flags.password, "password", "", "account password")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "plan preset to start from")
	cmd.Flags().IntVar(&flags.days, "days", 0, "plan duration in days (0 = unlimited)")
	cmd.Flags().IntVar(&flags.capGiB, "cap-gib", 0, "transfer cap in GiB (0 = unlimited)")
	cmd.Flags().IntVar(&flags.seats, "seats", 1, "concurrent sessions allowed")
	cmd.Flags().StringVar(&flags.start, "start", string(domain.StartAssigned), "start policy: assigned or deferred")
	cmd.Flags().StringVar(&flags.rateLimit, "rate-limit", "", "Mikrotik rate limit, e.g. 10M/10M")
	cmd.Flags().StringVar(&flags.staticIP, "static-ip", "", "framed IP address to pin the account to")
	_ = cmd.MarkFlagRequired("user")
}

// buildPlanCommand merges an optional preset with explicit flags; any flag the
// caller set wins over the preset value.
func buildPlanCommand(cmd *cobra.Command, app *app, flags *planFlags) (application.ApplyPlanCommand, error) {
	planCmd := application.ApplyPlanCommand{
		Username:  flags.user,
		Password:  flags.password,
		Days:      flags.days,
		CapGiB:    flags.capGiB,
		Seats:     flags.seats,
		Start:     domain.StartPolicy(flags.start),
		RateLimit: flags.rateLimit,
		StaticIP:  flags.staticIP,
	}

	if flags.preset == "" {
		return planCmd, nil
	}

	preset, err := app.presets.Get(cmd.Context(), flags.preset)
	if err != nil {
		return application.ApplyPlanCommand{}, fmt.Errorf("load preset %q: %w", flags.preset, err)
	}

	if !cmd.Flags().Changed("days") {
		planCmd.Days = preset.Days
	}
	if !cmd.Flags().Changed("cap-gib") {
		planCmd.CapGiB = preset.CapGiB
	}
	if !cmd.Flags().Changed("seats") {
		planCmd.Seats = preset.Seats
	}
	if !cmd.Flags().Changed("start") {
		planCmd.Start = preset.Start
	}
	if !cmd.Flags().Changed("rate-limit") {
		planCmd.RateLimit = preset.RateLimit
	}
	if !cmd.Flags().Changed("static-ip") {
		planCmd.StaticIP = preset.StaticIP
	}

	return planCmd, nil
}
