package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gauchoracing/aamctl/internal"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("aamctl version %s\n", internal.CurrentVersion)

		latest, url, err := internal.FetchLatestVersion(cmd.Context())
		if err != nil {
			fmt.Printf("Unable to check for updates: %v\n", err)
			return nil
		}

		if internal.IsNewer(latest, internal.CurrentVersion) {
			fmt.Printf("\n💡 Update available: %s → %s\n", internal.CurrentVersion, latest)
			fmt.Printf("   Download: %s\n", url)
		} else {
			fmt.Println("✅ You're running the latest version")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
