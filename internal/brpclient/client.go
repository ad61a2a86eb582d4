// Package brpclient is the JSON-RPC/HTTP transport to a running game
// engine's Bevy Remote Protocol endpoint. It is an out-of-scope
// collaborator (spec §1): the core packages depend only on the narrow
// interfaces they declare (discovery.RegistryFetcher, discovery.ExtrasFetcher,
// recovery.DirectExecutor); this package supplies the concrete
// implementations.
package brpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/brpbridge/bridge/internal/logging"
	"github.com/brpbridge/bridge/internal/recovery"
)

const (
	registrySchemaMethod = "bevy/registry_schema"
	discoverFormatMethod = "brp_extras/discover_format"
)

// Option is a functional option for Client, matching the pack's
// functional-options HTTP client idiom.
type Option func(*Client)

// WithTimeout sets the wrapped http.Client's Timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = timeout }
}

// WithHTTPClient overrides the wrapped *http.Client entirely, for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// Client issues JSON-RPC 2.0 requests over HTTP to one game engine
// instance, identified by host and port.
type Client struct {
	hc   *http.Client
	host string
	port int
}

// New constructs a Client targeting host:port.
func New(host string, port int, opts ...Option) *Client {
	c := &Client{hc: &http.Client{Timeout: 30 * time.Second}, host: host, port: port}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) url() string {
	u := &url.URL{Scheme: "http", Host: net.JoinHostPort(c.host, fmt.Sprintf("%d", c.port))}
	return u.String()
}

// rpcRequest is one JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// rpcResponse is one JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int32       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// call issues one JSON-RPC request and returns its raw result, or the
// engine-reported RPC error converted to recovery.RPCError.
func (c *Client) call(ctx context.Context, method string, params interface{}) (json.RawMessage, *recovery.RPCError, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, nil, errors.Wrap(err, "brpclient: encoding request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(body))
	if err != nil {
		return nil, nil, errors.Wrap(err, "brpclient: building request")
	}
	req.Header.Set("Content-Type", "application/json")

	logging.From(ctx).WithField("method", method).Debug("brpclient: issuing request")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "brpclient: calling %s", method)
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, nil, errors.Wrapf(err, "brpclient: decoding %s response", method)
	}
	if rpcResp.Error != nil {
		return nil, &recovery.RPCError{Code: rpcResp.Error.Code, Message: rpcResp.Error.Message, Data: rpcResp.Error.Data}, nil
	}
	return rpcResp.Result, nil, nil
}

// ExecuteDirect implements recovery.DirectExecutor: a single call with no
// recovery attempted, used both for the initial attempt and for the
// state machine's one allowed retry (spec §4.8's "Invariant").
func (c *Client) ExecuteDirect(ctx context.Context, method string, params map[string]interface{}) (json.RawMessage, *recovery.RPCError, error) {
	return c.call(ctx, method, params)
}

// FetchRegistrySchema implements discovery.RegistryFetcher.
func (c *Client) FetchRegistrySchema(ctx context.Context, cratePrefixes []string) (json.RawMessage, error) {
	result, rpcErr, err := c.call(ctx, registrySchemaMethod, map[string]interface{}{"crates": cratePrefixes})
	if err != nil {
		return nil, err
	}
	if rpcErr != nil {
		return nil, errors.Errorf("brpclient: registry schema error %d: %s", rpcErr.Code, rpcErr.Message)
	}
	return result, nil
}

// FetchExtras implements discovery.ExtrasFetcher.
func (c *Client) FetchExtras(ctx context.Context, typeName string) (json.RawMessage, error) {
	result, rpcErr, err := c.call(ctx, discoverFormatMethod, map[string]interface{}{"type": typeName})
	if err != nil {
		return nil, err
	}
	if rpcErr != nil {
		return nil, errors.Errorf("brpclient: discover_format error %d: %s", rpcErr.Code, rpcErr.Message)
	}
	return result, nil
}
