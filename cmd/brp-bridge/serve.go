package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/brpbridge/bridge/internal/brpclient"
	"github.com/brpbridge/bridge/internal/logging"
	"github.com/brpbridge/bridge/internal/mcpserver"
)

// toolCallRequest is one newline-delimited JSON request read from stdin.
// Full MCP JSON-RPC framing is out of scope; this is the minimal shape
// needed to exercise Server.Call end to end.
type toolCallRequest struct {
	Method string                 `json:"method"`
	Params map[string]interface{} `json:"params"`
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve BRP tool calls read as newline-delimited JSON on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := brpclient.New(cfg.Host, cfg.Port, brpclient.WithTimeout(cfg.Timeout))
			srv := mcpserver.New(client, cfg.Port, cfg.ResponseSizeLimit, nil, nil)

			log := logging.From(cmd.Context()).WithField("host", cfg.Host).WithField("port", cfg.Port)
			log.Info("brp-bridge: serving tool calls on stdin")

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			out := bufio.NewWriter(os.Stdout)
			defer out.Flush()

			for scanner.Scan() {
				line := scanner.Bytes()
				if len(line) == 0 {
					continue
				}
				var req toolCallRequest
				if err := json.Unmarshal(line, &req); err != nil {
					log.WithError(err).Warn("brp-bridge: skipping malformed request line")
					continue
				}
				resp, err := srv.Call(cmd.Context(), req.Method, req.Params)
				if err != nil {
					log.WithError(err).Error("brp-bridge: tool call failed")
					continue
				}
				fmt.Fprintln(out, string(resp))
				out.Flush()
			}
			if err := scanner.Err(); err != nil {
				return errors.Wrap(err, "brp-bridge: reading stdin")
			}
			return nil
		},
	}
}
