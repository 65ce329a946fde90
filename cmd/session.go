package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrenlabs/notewire/internal/adapters/keystore"
	localwallet "github.com/wrenlabs/notewire/internal/adapters/wallet/local"
	"github.com/wrenlabs/notewire/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Version)
			return err
		},
	}
}

func newConnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Establish a signed wallet session with the notes contract chain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "connected as %s on chain %d\n", session.Account.Hex(), session.ChainID)
			return err
		},
	}
}

func newDisconnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Clear the wallet session for this invocation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.ensureWallet(cmd.Context()); err != nil {
				return err
			}
			app.sessions.Disconnect()

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "disconnected; automatic re-authentication is suppressed until the next connect")
			return err
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the wallet address the client would authenticate as",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.ensureWallet(cmd.Context()); err != nil {
				return err
			}

			accounts, err := app.provider.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				return fmt.Errorf("wallet holds no accounts")
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), accounts[0].Hex())
			return err
		},
	}
}

func newKeyCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the local wallet key",
	}

	cmd.AddCommand(
		newKeyImportCmd(app),
		newKeyRemoveCmd(app),
	)

	return cmd
}

func newKeyImportCmd(app *app) *cobra.Command {
	var keyHex string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a private key for the local wallet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Parse before persisting so a typo never lands on disk.
			if _, err := localwallet.NewProvider(keyHex); err != nil {
				return err
			}
			if err := app.keys.Store(cmd.Context(), keyHex); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "key stored at %s\n", app.cfg.KeyPath)
			return err
		},
	}

	cmd.Flags().StringVar(&keyHex, "hex", "", "private key in hex form")
	_ = cmd.MarkFlagRequired("hex")

	return cmd
}

func newKeyRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the stored private key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.keys.Delete(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "removed %s (env %s still wins if set)\n", app.cfg.KeyPath, keystore.EnvKey)
			return err
		},
	}
}
