package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrenlabs/notewire/internal/adapters/render/doctor"
)

func newDoctorCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the contract deployment",
		Long:  "Runs connectivity, capability, and storage checks against the configured contract and prints a report with remediation hints.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// A misconfigured contract address must not stop the report; the
			// probe's first check is exactly that address.
			if err := app.wireWallet(cmd.Context()); err != nil {
				return err
			}

			// The probe runs without a session; checks that need a caller
			// fall back to the zero address. Connecting first scopes the
			// storage read to the user's own notes, so try but do not fail.
			if _, err := app.connect(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "running unauthenticated:", err)
			}

			report := app.probe.Run(cmd.Context())

			out, err := doctor.Render(report)
			if err != nil {
				return fmt.Errorf("render diagnostics: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}
