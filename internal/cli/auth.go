package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and migrate the local basket to the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deps.auth.Login(cmd.Context(), args[0], loginPassword); err != nil {
			return err
		}
		return migrateAfterSignIn(cmd)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account and migrate the local basket to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deps.auth.Register(cmd.Context(), args[0], loginPassword); err != nil {
			return err
		}
		return migrateAfterSignIn(cmd)
	},
}

func migrateAfterSignIn(cmd *cobra.Command) error {
	report, err := deps.basket.MigrateLocalToServer(cmd.Context())
	if err != nil {
		return fmt.Errorf("signed in, but basket migration failed: %w", err)
	}

	if lost := report.UnitsLost(); lost > 0 {
		fmt.Printf("Signed in. %d basket item(s) could not be migrated:\n", lost)
		for _, line := range report.Lines {
			if line.UnitsMigrated < line.UnitsRequested {
				fmt.Printf("  product %d: %d of %d units migrated (%v)\n",
					line.Key.ProductID, line.UnitsMigrated, line.UnitsRequested, line.Err)
			}
		}
		return nil
	}

	fmt.Println("Signed in. Basket migrated to your account.")
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and return to a guest session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := deps.auth.Logout(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	_ = loginCmd.MarkFlagRequired("password")
	registerCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	_ = registerCmd.MarkFlagRequired("password")
}
