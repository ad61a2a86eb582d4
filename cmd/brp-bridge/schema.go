package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/brpbridge/bridge/internal/brpclient"
	"github.com/brpbridge/bridge/internal/registry"
)

func newSchemaCommand() *cobra.Command {
	var cratePrefixes []string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Fetch and print the engine's registry schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := brpclient.New(cfg.Host, cfg.Port, brpclient.WithTimeout(cfg.Timeout))
			raw, err := client.FetchRegistrySchema(cmd.Context(), cratePrefixes)
			if err != nil {
				return errors.Wrap(err, "brp-bridge: fetching registry schema")
			}

			var defs map[string]json.RawMessage
			if err := json.Unmarshal(raw, &defs); err != nil {
				return errors.Wrap(err, "brp-bridge: decoding registry schema response")
			}
			reg, err := registry.Parse(defs)
			if err != nil {
				return errors.Wrap(err, "brp-bridge: parsing registry schema")
			}
			out, err := json.MarshalIndent(reg.Names(), "", "  ")
			if err != nil {
				return errors.Wrap(err, "brp-bridge: encoding type names")
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&cratePrefixes, "crate", nil, "crate name prefixes to request (repeatable)")
	return cmd
}
