// Package config loads aamctl settings from flags, the environment and
// ~/.aamctl/config.yaml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. AAMCTL_BACKEND_URL.
const EnvPrefix = "AAMCTL"

const (
	KeyBackendURL     = "backend_url"
	KeyLoginRoute     = "login_route"
	KeyTokenKey       = "token_key"
	KeyStorageBackend = "storage.backend"
	KeyStoragePath    = "storage.path"
	KeyRegion         = "region"
	KeyLogLevel       = "log.level"
	KeyLogFile        = "log.file"
	KeyHTTPTimeout    = "http_timeout"
)

// Config is the resolved configuration.
type Config struct {
	BackendURL     string
	LoginRoute     string
	TokenKey       string
	StorageBackend string
	StoragePath    string
	Region         string
	LogLevel       string
	LogFile        string
	HTTPTimeout    time.Duration
}

// Dir is the per-user state directory, ~/.aamctl.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".aamctl")
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBackendURL, "http://localhost:7000")
	v.SetDefault(KeyLoginRoute, "/auth/login")
	v.SetDefault(KeyTokenKey, "sentinel_id_token")
	v.SetDefault(KeyStorageBackend, "file")
	v.SetDefault(KeyStoragePath, filepath.Join(Dir(), "storage.json"))
	v.SetDefault(KeyRegion, "us-west-2")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, filepath.Join(Dir(), "aamctl.log"))
	v.SetDefault(KeyHTTPTimeout, 30*time.Second)
}

// Init wires defaults, environment lookup and the config file into v. A
// missing default config file is not an error; a missing explicit one is.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load resolves the configuration from v.
func Load(v *viper.Viper) Config {
	return Config{
		BackendURL:     v.GetString(KeyBackendURL),
		LoginRoute:     v.GetString(KeyLoginRoute),
		TokenKey:       v.GetString(KeyTokenKey),
		StorageBackend: v.GetString(KeyStorageBackend),
		StoragePath:    v.GetString(KeyStoragePath),
		Region:         v.GetString(KeyRegion),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFile:        v.GetString(KeyLogFile),
		HTTPTimeout:    v.GetDuration(KeyHTTPTimeout),
	}
}
