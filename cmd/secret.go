package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gauchoracing/aamctl/internal"
	"github.com/gauchoracing/aamctl/internal/ui"
)

var errNoKeychain = errors.New("keychain integration is only available on macOS; set " + internal.SecretEnv + " instead")

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the storage encryption secret",
	Long:  `Manage the secret that encrypts your identity token in ~/.aamctl/storage.json.`,
}

var secretInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a storage secret in the keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !internal.IsMacOS() {
			return errNoKeychain
		}
		secret, err := internal.SetupKeychain()
		if err != nil {
			return err
		}
		printSecret(secret)
		return nil
	},
}

var secretShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current keychain secret",
	Long:  "Reveal the secret stored in your macOS Keychain. The system asks you to authenticate first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !internal.IsMacOS() {
			return errNoKeychain
		}
		// Access control on the item makes the OS prompt the user.
		secret, err := internal.GetSecret("")
		if err != nil {
			return errors.New("no secret found in Keychain or it couldn't be accessed")
		}
		printSecret(secret)
		return nil
	},
}

var secretImportCmd = &cobra.Command{
	Use:   "import [key]",
	Short: "Import a secret into the keychain",
	Long:  "Save an existing secret into your macOS Keychain so aamctl can run without " + internal.SecretEnv + ".",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !internal.IsMacOS() {
			return errNoKeychain
		}

		var key string
		if len(args) > 0 {
			key = args[0]
		} else {
			var err error
			key, err = ui.GetInput("Enter Secret Key to Import", "", true)
			if err != nil {
				return err
			}
		}

		if len(key) < 32 {
			return errors.New("secret must be at least 32 characters")
		}
		if err := internal.StoreKeychainSecret(key); err != nil {
			return err
		}

		fmt.Println("✅ Secret imported successfully to Keychain!")
		return nil
	},
}

func printSecret(secret string) {
	fmt.Println("🔐 Your aamctl storage secret:")
	fmt.Println(strings.Repeat("─", 64))
	fmt.Println(secret)
	fmt.Println(strings.Repeat("─", 64))
	fmt.Println("\n⚠️  KEEP THIS SAFE! Without it the stored identity token cannot be read.")
	fmt.Println("   To restore: aamctl secret import <key>")
}

func init() {
	secretCmd.AddCommand(secretInitCmd)
	secretCmd.AddCommand(secretShowCmd)
	secretCmd.AddCommand(secretImportCmd)
	rootCmd.AddCommand(secretCmd)
}
