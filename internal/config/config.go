// Package config is the viper-backed configuration layer shared by the
// cmd/brp-bridge subcommands, grounded on the pack's cobra+viper root
// command idiom (spec's ambient "Configuration" stack).
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is the environment-variable prefix viper binds flags under,
// e.g. BRPBRIDGE_PORT for --port.
const EnvPrefix = "BRPBRIDGE"

// Config is the resolved set of values every subcommand needs.
type Config struct {
	Host              string
	Port              int
	Timeout           time.Duration
	LogLevel          string
	ResponseSizeLimit int
}

// BindFlags registers the persistent flags shared by every subcommand onto
// cmd and binds them into v, env-prefixed per EnvPrefix.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String("host", "localhost", "game engine host")
	flags.Int("port", 15702, "game engine BRP port")
	flags.Duration("timeout", 30*time.Second, "per-call timeout")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.Int("response-size-limit", 64*1024, "response size in bytes before spilling to a tempfile")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, name := range []string{"host", "port", "timeout", "log-level", "response-size-limit"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

// Load resolves the bound configuration, optionally reading a config file
// at path (skipped if path is empty; a file that cannot be read is an
// error).
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "config: reading config file")
		}
	}
	return &Config{
		Host:              v.GetString("host"),
		Port:              v.GetInt("port"),
		Timeout:           v.GetDuration("timeout"),
		LogLevel:          v.GetString("log-level"),
		ResponseSizeLimit: v.GetInt("response-size-limit"),
	}, nil
}
