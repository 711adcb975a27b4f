package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gauchoracing/aamctl/internal"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect the stored identity token",
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Decode the identity token claims",
	Long: `Decode the claims of the stored identity token. The signature is not
verified and an expired token is still shown; the backend decides validity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		raw, ok, err := sess.Token()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no identity token stored; run 'aamctl login'")
		}

		info, err := internal.InspectToken(raw)
		if err != nil {
			return err
		}

		fmt.Printf("Subject: %s\n", info.Subject)
		if info.Email != "" {
			fmt.Printf("Email:   %s\n", info.Email)
		}
		if info.Issuer != "" {
			fmt.Printf("Issuer:  %s\n", info.Issuer)
		}
		if !info.IssuedAt.IsZero() {
			fmt.Printf("Issued:  %s\n", internal.FormatLocal(info.IssuedAt))
		}
		if !info.ExpiresAt.IsZero() {
			fmt.Printf("Expires: %s (%s)\n", internal.FormatLocal(info.ExpiresAt), internal.FormatRemaining(info.ExpiresAt, time.Now()))
		}
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenShowCmd)
	rootCmd.AddCommand(tokenCmd)
}
