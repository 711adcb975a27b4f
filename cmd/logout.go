package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored identity token",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		if err := sess.Invalidate(); err != nil {
			return fmt.Errorf("failed to remove identity token: %w", err)
		}
		fmt.Fprintln(os.Stderr, "✅ Signed out.")
		return nil
	},
}
