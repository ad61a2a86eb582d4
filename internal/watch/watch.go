// Package watch consumes the engine's SSE watch-stream endpoints
// (bevy/get+watch, bevy/list+watch), decoding "data: {json}" lines and
// publishing the JSON-RPC result payload of each update on a channel.
// Grounded on the original mcp's watch_tools/task.rs background task
// model: one cancellable task per watch, logging lines that fail to
// parse, extracting the "result" field of each parsed update (spec's out-of-scope "watch
// stream" collaborator, supplemented feature #5).
package watch

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/brpbridge/bridge/internal/logging"
)

// maxLineSize bounds a single SSE line, matching the original's
// per-chunk cap to avoid unbounded buffering on a runaway stream.
const maxLineSize = 1024 * 1024

// Update is one decoded watch-stream frame.
type Update struct {
	Result json.RawMessage
	Error  *UpdateError
}

// UpdateError is the JSON-RPC error payload of one update, when present.
type UpdateError struct {
	Code    int32       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type rpcFrame struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *UpdateError    `json:"error,omitempty"`
}

// Task is one running watch-stream consumer. Cancel stops it; Updates
// yields decoded frames until the stream ends or ctx is cancelled.
type Task struct {
	updates chan Update
	cancel  context.CancelFunc
}

// Updates returns the channel of decoded updates. It is closed when the
// stream ends, the connection fails, or the task is cancelled.
func (t *Task) Updates() <-chan Update { return t.updates }

// Cancel stops the underlying HTTP request; in-flight reads abort via the
// request's context (spec §5 "Cancellation").
func (t *Task) Cancel() { t.cancel() }

// Start issues a GET to url expecting a `text/event-stream` response and
// begins decoding it in a background goroutine. The caller owns the
// returned Task and must eventually call Cancel to release the
// connection.
func Start(ctx context.Context, hc *http.Client, url string) (*Task, error) {
	taskCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(taskCtx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "watch: building request")
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := hc.Do(req)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "watch: opening stream")
	}

	t := &Task{updates: make(chan Update), cancel: cancel}
	go t.consume(taskCtx, resp.Body)
	return t, nil
}

func (t *Task) consume(ctx context.Context, body io.ReadCloser) {
	defer close(t.updates)
	defer body.Close()

	log := logging.From(ctx)
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		const prefix = "data: "
		if len(line) < len(prefix) || line[:len(prefix)] != prefix {
			continue
		}
		var frame rpcFrame
		if err := json.Unmarshal([]byte(line[len(prefix):]), &frame); err != nil {
			log.WithError(err).Debug("watch: failed to parse SSE data line")
			continue
		}
		select {
		case t.updates <- Update{Result: frame.Result, Error: frame.Error}:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Warn("watch: stream ended with error")
	}
}
