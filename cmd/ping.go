package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gauchoracing/aamctl/internal/backend"
	"github.com/gauchoracing/aamctl/internal/ui"
)

func init() {
	rootCmd.AddCommand(pingCmd)
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the AAM backend is online",
	RunE: func(cmd *cobra.Command, args []string) error {
		be := newBackend()
		msg, err := spin("Contacting "+be.BaseURL()+"...", func() (string, error) {
			return be.Ping(cmd.Context())
		})
		if err != nil {
			return errors.New(backend.ErrorMessage(err))
		}
		fmt.Println(msg)
		return nil
	},
}

// spin shows a spinner on stderr while task runs, when stderr is a terminal.
func spin[T any](text string, task func() (T, error)) (T, error) {
	if !isTerminal(os.Stderr) {
		return task()
	}
	return ui.Spin(text, task)
}
