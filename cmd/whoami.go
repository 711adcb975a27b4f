package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gauchoracing/aamctl/internal"
	"github.com/gauchoracing/aamctl/internal/auth"
	"github.com/gauchoracing/aamctl/internal/exchange"
)

var whoamiAWS bool

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiAWS, "aws", false, "Also exchange the token and show the AWS identity it maps to")
	rootCmd.AddCommand(whoamiCmd)
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := currentSession()
		if err != nil {
			return err
		}
		be := newBackend()

		checker := &auth.BackendChecker{Session: sess, Users: be}
		status, err := spin("Checking session...", func() (auth.Status, error) {
			return checker.Check(ctx), nil
		})
		if err != nil {
			return err
		}
		if !status.Valid() {
			return fmt.Errorf("not signed in (%s); run 'aamctl login'", status)
		}

		u := sess.User()
		fmt.Printf("User:  %s %s (%s)\n", u.FirstName, u.LastName, u.Username)
		fmt.Printf("Email: %s\n", u.Email)
		fmt.Printf("ID:    %s\n", u.ID)
		if len(u.Roles) > 0 {
			fmt.Printf("Roles: %s\n", strings.Join(u.Roles, ", "))
		}

		if !whoamiAWS {
			return nil
		}

		st, _, err := exchange.NewClient(sess, be).FetchCredentials(ctx)
		if err != nil {
			return err
		}
		if st.Error != "" {
			return fmt.Errorf("credential exchange failed: %s", st.Error)
		}
		id, err := spin("Verifying credentials with STS...", func() (*internal.CallerIdentity, error) {
			return internal.VerifyCredentials(ctx, st.Credentials, cfg.Region)
		})
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("AWS Account: %s\n", id.Account)
		fmt.Printf("AWS ARN:     %s\n", id.Arn)
		fmt.Printf("Expires:     %s (%s)\n",
			internal.FormatLocal(st.Credentials.Expiration),
			internal.FormatRemaining(st.Credentials.Expiration, time.Now()))
		return nil
	},
}
