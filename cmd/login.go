package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gauchoracing/aamctl/internal/auth"
	"github.com/gauchoracing/aamctl/internal/ui"
)

var (
	loginReturnRoute string
	loginToken       string

	stdin io.Reader = os.Stdin
)

func init() {
	loginCmd.Flags().StringVar(&loginReturnRoute, "route", "", "Route to resume after signing in, e.g. /launch")
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Sentinel identity token (prompted for when omitted)")

	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store your Sentinel identity token and resume where you left off",
	Long: `Store your Sentinel identity token in the local token store.

When --route is given (either a route such as /launch or a full login target
such as /auth/login?route=%2Flaunch), the command it names runs afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin(cmd.Context(), loginReturnRoute, loginToken)
	},
}

// loginFlow is the login entry point used by navigation.
func loginFlow(ctx context.Context, returnRoute string) error {
	fmt.Fprintf(os.Stderr, "🔐 Sign-in required: %s\n", auth.LoginTarget(cfg.LoginRoute, returnRoute))
	return runLogin(ctx, returnRoute, "")
}

func runLogin(ctx context.Context, returnRoute, token string) error {
	route, err := normalizeReturnRoute(returnRoute, cfg.LoginRoute)
	if err != nil {
		return err
	}

	sess, err := currentSession()
	if err != nil {
		return err
	}

	token, err = readToken(token)
	if err != nil {
		return err
	}
	if err := sess.SetToken(token); err != nil {
		return err
	}

	checker := &auth.BackendChecker{Session: sess, Users: newBackend()}
	switch status := checker.Check(ctx); status {
	case auth.StatusValid:
		fmt.Fprintf(os.Stderr, "✅ Signed in as %s\n", sess.User())
	case auth.StatusRejected:
		if err := sess.Invalidate(); err != nil {
			log.Warn("Logout failed", "error", err)
		}
		return errors.New("the backend rejected this identity token")
	default:
		log.Warn("Could not validate the identity token", "status", status)
		fmt.Fprintln(os.Stderr, "⚠️  Token stored, but the backend could not be reached to validate it.")
	}

	return resume(ctx, route)
}

// readToken returns the token given on the command line, or reads it from a
// hidden prompt, or from stdin when stdin is not a terminal.
func readToken(token string) (string, error) {
	if token = strings.TrimSpace(token); token != "" {
		return token, nil
	}

	if f, ok := stdin.(*os.File); !ok || !isTerminal(f) {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read token from stdin: %w", err)
		}
		if token = strings.TrimSpace(string(b)); token == "" {
			return "", errors.New("no identity token given; pass --token or pipe it on stdin")
		}
		return token, nil
	}

	token, err := ui.GetInput("Sentinel identity token", "eyJhbGciOi...", true)
	if err != nil {
		return "", err
	}
	return token, nil
}
