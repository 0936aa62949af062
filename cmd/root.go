package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "mikroman",
		Short:         "mikroman: provision User Manager accounts on MikroTik routers",
		Long:          "mikroman talks to the RouterOS User Manager REST API to provision bandwidth- and time-limited accounts, renew plans, and inspect users from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newPlanCmd(app),
		newUserCmd(app),
		newProfileCmd(app),
		newLimitationCmd(app),
		newPresetCmd(app),
		newAuthCmd(app),
	)

	return rootCmd
}
