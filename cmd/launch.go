package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/gauchoracing/aamctl/internal"
	"github.com/gauchoracing/aamctl/internal/auth"
	"github.com/gauchoracing/aamctl/internal/backend"
	"github.com/gauchoracing/aamctl/internal/exchange"
	"github.com/gauchoracing/aamctl/internal/logger"
	"github.com/gauchoracing/aamctl/internal/nav"
	"github.com/gauchoracing/aamctl/internal/notify"
	"github.com/gauchoracing/aamctl/internal/ui"
)

var (
	launchNoOpen bool
	launchPrint  bool
	launchExport bool

	// openURL opens the console; nil means the system browser.
	openURL nav.OpenURLFunc
)

func init() {
	launchCmd.Flags().BoolVar(&launchNoOpen, "no-open", false, "Show the credentials without opening the AWS console")
	launchCmd.Flags().BoolVar(&launchPrint, "print", false, "Print the console URL to stdout instead of opening a browser")
	launchCmd.Flags().BoolVar(&launchExport, "export", false, "Print export AWS_* lines for the credentials on exit")
	rootCmd.AddCommand(launchCmd)
}

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Exchange your identity token for AWS credentials and open the console",
	Long: `Check your session, exchange the Sentinel identity token for temporary AWS
IAM credentials and open the AWS console with them.

Without a valid session you are sent to 'aamctl login', which brings you back
here afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLaunch(cmd.Context(), RouteOf(cmd))
	},
}

func runLaunch(ctx context.Context, route string) error {
	sess, err := currentSession()
	if err != nil {
		return err
	}
	be := newBackend()
	gate := auth.NewGate(&auth.BackendChecker{Session: sess, Users: be})
	ex := exchange.NewClient(sess, be)
	exitNav := &nav.Browser{Login: loginFlow}

	if !isTerminal(os.Stderr) {
		return launchHeadless(ctx, route, gate, ex, be, exitNav)
	}

	restore, err := logger.RedirectToFile(cfg.LogFile)
	if err != nil {
		log.Warn("Logging to stderr", "error", err)
		restore = func() {}
	}

	// Browser helpers write to the terminal the view is drawing on.
	browser.Stdout, browser.Stderr = io.Discard, io.Discard

	res, err := ui.RunPage(ctx, ui.PageDeps{
		Session:   sess,
		Gate:      gate,
		Exchange:  ex,
		Pinger:    be,
		Navigator: consoleNavigator(),
		Route:     route,
	})
	restore()
	if err != nil {
		return err
	}

	if res.Exit.Kind == nav.KindLogin {
		return exitNav.Navigate(ctx, res.Exit)
	}
	if res.Credentials != nil {
		printHandoff(res.Credentials)
		return nil
	}
	if res.Error != "" {
		return fmt.Errorf("credential exchange failed: %s", res.Error)
	}
	return nil
}

// consoleNavigator opens the console unless the user asked for the URL or
// for no browser at all.
func consoleNavigator() nav.Executor {
	if launchNoOpen || launchPrint {
		return nav.ExecutorFunc(func(_ context.Context, intent nav.Intent) error {
			log.Debug("Skipping console hand-off", "intent", intent)
			return nil
		})
	}
	return &nav.Browser{Open: openURL}
}

// launchHeadless runs the same flow without the full-screen view, for pipes
// and scripts.
func launchHeadless(ctx context.Context, route string, gate *auth.Gate, ex *exchange.Client, be *backend.Client, exitNav nav.Executor) error {
	notifier := notify.NewConsole(os.Stderr)
	go func() {
		if _, err := be.Ping(ctx); err != nil {
			notifier.Error(backend.ErrorMessage(err))
		}
	}()

	if intent := gate.CheckAuth(ctx, route); !intent.IsNone() {
		return exitNav.Navigate(ctx, intent)
	}

	st, intent, err := ex.FetchCredentials(ctx)
	if err != nil {
		return err
	}
	if intent.Kind == nav.KindLogin {
		return exitNav.Navigate(ctx, intent)
	}
	if st.Error != "" {
		return fmt.Errorf("credential exchange failed: %s", st.Error)
	}

	if intent.Kind == nav.KindExternal {
		if err := consoleNavigator().Navigate(ctx, intent); err != nil {
			notifier.Error(err.Error())
		} else if !launchNoOpen && !launchPrint {
			notifier.Success("AWS console opened in your browser")
		}
	}
	printHandoff(st.Credentials)
	return nil
}

// printHandoff writes what the user asked to keep to stdout.
func printHandoff(creds *backend.IamCredentialSet) {
	if creds == nil {
		return
	}
	if launchPrint && creds.LoginURL != "" {
		fmt.Println(creds.LoginURL)
	}
	if launchExport {
		writeExports(os.Stdout, creds, cfg.Region)
	}
}

// writeExports prints shell-compatible export commands.
func writeExports(w io.Writer, creds *backend.IamCredentialSet, region string) {
	fmt.Fprintf(w, "export AWS_ACCESS_KEY_ID=%s\n", creds.AccessKeyID)
	fmt.Fprintf(w, "export AWS_SECRET_ACCESS_KEY=%s\n", creds.SecretAccessKey)
	fmt.Fprintf(w, "export AWS_SESSION_TOKEN=%s\n", creds.SessionToken)
	if region != "" {
		fmt.Fprintf(w, "export AWS_REGION=%s\n", region)
	}
	if !creds.Expiration.IsZero() {
		fmt.Fprintf(w, "# expires %s\n", internal.FormatLocal(creds.Expiration))
	}
}
