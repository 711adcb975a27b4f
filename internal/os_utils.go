package internal

import "runtime"

// SecretEnv names the environment variable holding the storage secret.
const SecretEnv = "AAMCTL_SECRET"

// IsMacOS checks if the runtime OS is darwin
func IsMacOS() bool {
	return runtime.GOOS == "darwin"
}
