package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/gauchoracing/aamctl/internal"
	"github.com/gauchoracing/aamctl/internal/backend"
	"github.com/gauchoracing/aamctl/internal/config"
	"github.com/gauchoracing/aamctl/internal/logger"
)

var (
	cfgFile    string
	secretFlag string

	v   = viper.New()
	cfg config.Config
)

var logo = []string{
	`   █████╗  █████╗ ███╗   ███╗ ██████╗████████╗██╗     `,
	`  ██╔══██╗██╔══██╗████╗ ████║██╔════╝╚══██╔══╝██║     `,
	`  ███████║███████║██╔████╔██║██║        ██║   ██║     `,
	`  ██╔══██║██╔══██║██║╚██╔╝██║██║        ██║   ██║     `,
	`  ██║  ██║██║  ██║██║ ╚═╝ ██║╚██████╗   ██║   ███████╗`,
	`  ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝ ╚═════╝   ╚═╝   ╚══════╝`,
}

// logoStops are the gradient colors across the logo, left to right.
var logoStops = [][3]float64{{255, 196, 0}, {255, 94, 58}, {190, 30, 120}}

func logoColor(x float64) lipgloss.Color {
	seg := x * float64(len(logoStops)-1)
	i := min(int(seg), len(logoStops)-2)
	t := seg - float64(i)
	a, b := logoStops[i], logoStops[i+1]
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x",
		int(a[0]+(b[0]-a[0])*t), int(a[1]+(b[1]-a[1])*t), int(a[2]+(b[2]-a[2])*t)))
}

func printLogo() {
	var b strings.Builder
	b.WriteString("\n")
	for _, line := range logo {
		runes := []rune(line)
		for i, r := range runes {
			style := lipgloss.NewStyle().Foreground(logoColor(float64(i) / float64(len(runes))))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("  Federated AWS access for Gaucho Racing, from your terminal"))
	b.WriteString("\n")
	fmt.Fprintln(os.Stderr, b.String())
}

var rootCmd = &cobra.Command{
	Use:   "aamctl",
	Short: "aamctl exchanges your Sentinel identity for AWS credentials",
	Long: `aamctl signs you in to the AAM backend with your Sentinel identity token,
exchanges it for short-lived AWS IAM credentials and opens the AWS console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(v, cfgFile); err != nil {
			return err
		}
		cfg = config.Load(v)
		if err := logger.Setup(cfg.LogLevel); err != nil {
			return err
		}
		log.Debug("Loaded configuration", "file", v.ConfigFileUsed(), "backend", cfg.BackendURL)

		// Check for updates on every command (non-blocking)
		internal.CheckForUpdates()
		return nil
	},
}

// Execute runs the CLI
func Execute() {
	if len(os.Args) <= 1 || os.Args[1] == "help" {
		printLogo()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ~/.aamctl/config.yaml)")
	flags.StringVar(&secretFlag, "secret", "", "Storage encryption secret (or set "+internal.SecretEnv+")")
	flags.String("backend-url", "", "AAM backend base URL")
	flags.String("storage", "", "Token storage backend: file, keyring or memory (this process only)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	_ = v.BindPFlag(config.KeyBackendURL, flags.Lookup("backend-url"))
	_ = v.BindPFlag(config.KeyStorageBackend, flags.Lookup("storage"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
}

// newBackend returns a client for the configured backend.
func newBackend() *backend.Client {
	return backend.NewClient(cfg.BackendURL, cfg.HTTPTimeout)
}

// session is shared by every command of one process, so a login that
// resumes another command hands it the token it just stored.
var session *internal.Session

// currentSession opens the configured token store on first use and returns
// the session on top of it.
func currentSession() (*internal.Session, error) {
	if session != nil {
		return session, nil
	}

	var secret string
	if cfg.StorageBackend == "" || cfg.StorageBackend == "file" {
		var err error
		secret, err = internal.GetSecret(secretFlag)
		if err != nil {
			return nil, fmt.Errorf("%w\n💡 Set %s, pass --secret, or run 'aamctl secret init' on macOS", err, internal.SecretEnv)
		}
	}

	store, err := internal.OpenStore(cfg.StorageBackend, cfg.StoragePath, secret)
	if err != nil {
		return nil, err
	}
	session = internal.NewSession(store, cfg.TokenKey)
	return session, nil
}

// isTerminal reports whether f is attached to a terminal.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
