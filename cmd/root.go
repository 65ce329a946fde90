package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "notewire",
		Short:         "notewire: private on-chain notes from the terminal",
		Long:          "notewire keeps per-account private notes in a smart contract. It establishes a signed wallet session, submits note writes as transactions, and reconciles the eventually-consistent list view against confirmed writes.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConnectCmd(app),
		newDisconnectCmd(app),
		newWhoamiCmd(app),
		newKeyCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newNewCmd(app),
		newEditCmd(app),
		newDeleteCmd(app),
		newDraftsCmd(app),
		newDoctorCmd(app),
	)

	return rootCmd
}
