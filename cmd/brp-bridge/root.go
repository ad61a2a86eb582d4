package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brpbridge/bridge/internal/config"
	"github.com/brpbridge/bridge/internal/logging"
)

var (
	v          = viper.New()
	configFile string
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "brp-bridge",
		Short: "Bridges a game engine's remote reflection protocol to MCP tool calls",
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional config file")
	config.BindFlags(root, v)

	root.AddCommand(newServeCommand())
	root.AddCommand(newSchemaCommand())
	root.AddCommand(newPathsCommand())
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}
	logging.New(cfg.LogLevel)
	return cfg, nil
}
