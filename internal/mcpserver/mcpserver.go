// Package mcpserver is the MCP tool dispatch layer: it accepts one tool
// call, issues the direct BRP request, and — on a recoverable format
// error — drives discovery and recovery before shaping the final
// response. Full MCP JSON-RPC framing and transport are out of scope
// (spec.md §1's "thin interface" framing); this package gives the core
// packages a concrete, testable caller, grounded on the same envelope
// shape `internal/response` already builds against.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/brpbridge/bridge/internal/discovery"
	"github.com/brpbridge/bridge/internal/knowledge"
	"github.com/brpbridge/bridge/internal/logging"
	"github.com/brpbridge/bridge/internal/recovery"
	"github.com/brpbridge/bridge/internal/response"
	"github.com/brpbridge/bridge/internal/transform"
)

// Executor is the transport collaborator a Server dispatches every tool
// call through. internal/brpclient.Client satisfies it alongside
// discovery's own fetcher interfaces.
type Executor interface {
	recovery.DirectExecutor
	discovery.RegistryFetcher
	discovery.ExtrasFetcher
}

// Server dispatches BRP tool calls, applying recovery on a format error
// before shaping the final response.
type Server struct {
	executor          Executor
	knowledge         *knowledge.Table
	transformers      *transform.Registry
	port              int
	responseSizeLimit int
}

// New constructs a Server. knowledge and transformers may be nil, in
// which case New supplies the built-in defaults (knowledge.NewTable,
// transform.NewDefaultRegistry).
func New(executor Executor, port, responseSizeLimit int, kt *knowledge.Table, transformers *transform.Registry) *Server {
	if kt == nil {
		kt = knowledge.NewTable()
	}
	if transformers == nil {
		transformers = transform.NewDefaultRegistry()
	}
	return &Server{
		executor:          executor,
		knowledge:         kt,
		transformers:      transformers,
		port:              port,
		responseSizeLimit: responseSizeLimit,
	}
}

// Call dispatches one BRP method call, retrying at most once via recovery
// on a recoverable format error, and returns the rendered response body
// (either the success or error envelope) ready to hand back to the MCP
// client.
func (s *Server) Call(ctx context.Context, method string, params map[string]interface{}) (json.RawMessage, error) {
	log := logging.From(ctx).WithField("method", method)

	result, rpcErr, err := s.executor.ExecuteDirect(ctx, method, params)
	if err != nil {
		return nil, errors.Wrapf(err, "mcpserver: direct call to %s", method)
	}
	if rpcErr == nil {
		env := response.BuildSuccess(result, "", nil)
		return response.Render(env, s.responseSizeLimit)
	}

	discCtx, err := discovery.BuildContext(ctx, method, params, s.port, s.executor, s.executor, s.knowledge)
	if err != nil {
		log.WithError(err).Warn("mcpserver: discovery context build failed, surfacing original error")
		env := response.BuildError(rpcErr.Code, rpcErr.Message, nil)
		return response.Render(env, s.responseSizeLimit)
	}

	recResult, err := recovery.Recover(ctx, method, params, &recovery.RPCError{Code: rpcErr.Code, Message: rpcErr.Message, Data: rpcErr.Data}, discCtx, s.transformers, s.executor)
	if err != nil {
		return nil, errors.Wrapf(err, "mcpserver: recovering from %s error", method)
	}

	if recResult.Kind == recovery.Retryable && recResult.FinalErr == nil {
		env := response.BuildSuccess(recResult.Response, recResult.FormatCorrected, recResult.Corrections)
		return response.Render(env, s.responseSizeLimit)
	}

	finalErr := rpcErr
	if recResult.FinalErr != nil {
		finalErr = recResult.FinalErr
	}
	env := response.BuildError(finalErr.Code, finalErr.Message, recResult.Corrections)
	return response.Render(env, s.responseSizeLimit)
}

// KeyboardInjectRequest is the pass-through shape for the extras plugin's
// keyboard injection tool (spec.md §1 lists it as an MCP tool; SPEC_FULL
// supplemented feature #4 gives it a concrete type here rather than
// folding keyboard semantics into the core packages).
type KeyboardInjectRequest struct {
	Keys           []string `json:"keys"`
	DurationMillis int      `json:"duration_millis,omitempty"`
}

// ScreenshotRequest is the pass-through shape for the extras plugin's
// screenshot tool (same supplemented feature as KeyboardInjectRequest).
type ScreenshotRequest struct {
	Path string `json:"path"`
}
