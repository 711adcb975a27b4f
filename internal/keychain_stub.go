//go:build !darwin

package internal

import (
	"fmt"
	"os"
)

// GetSecret resolves the storage secret from the flag or AAMCTL_SECRET.
func GetSecret(explicitSecret string) (string, error) {
	if explicitSecret != "" {
		return explicitSecret, nil
	}
	if envSecret := os.Getenv(SecretEnv); envSecret != "" {
		return envSecret, nil
	}
	return "", fmt.Errorf("no storage secret found and keychain is only supported on macOS")
}

// SetupKeychain stub for non-macOS
func SetupKeychain() (string, error) {
	return "", fmt.Errorf("keychain integration is only supported on macOS")
}

// StoreKeychainSecret stub for non-macOS
func StoreKeychainSecret(secret string) error {
	return fmt.Errorf("keychain integration is only supported on macOS")
}
