package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/brpbridge/bridge/internal/brpclient"
	"github.com/brpbridge/bridge/internal/knowledge"
	"github.com/brpbridge/bridge/internal/pathbuilder"
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// cratePrefix extracts the crate-name portion of a type name (before the
// first "::"), matching internal/discovery's own extraction so the
// standalone "paths" introspection requests the same narrow registry
// slice C7 would.
func cratePrefix(n typename.Name) string {
	s := n.Base()
	if i := strings.Index(s, "::"); i >= 0 {
		return s[:i]
	}
	return s
}

func newPathsCommand() *cobra.Command {
	var depthLimit int
	cmd := &cobra.Command{
		Use:   "paths <type>",
		Short: "Build and print the exhaustive mutation-path catalog for a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			root := typename.Name(args[0])

			client := brpclient.New(cfg.Host, cfg.Port, brpclient.WithTimeout(cfg.Timeout))
			raw, err := client.FetchRegistrySchema(cmd.Context(), []string{cratePrefix(root)})
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

			catalog := pathbuilder.Build(reg, knowledge.NewTable(), root, pathbuilder.Options{DepthLimit: depthLimit})
			entries := pathbuilder.ToIntrospectionOutput(catalog, nil)

			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return errors.Wrap(err, "brp-bridge: encoding mutation paths")
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().IntVar(&depthLimit, "depth-limit", pathbuilder.DefaultDepthLimit, "recursion bound for the mutation-path descent")
	return cmd
}
