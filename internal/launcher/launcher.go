// Package launcher starts the target game engine process and tails its
// stdout/stderr so a caller can surface engine logs alongside BRP calls.
// Grounded on the pack's only real os/exec idiom (the docs generator's
// testExternalCommand in googleapis-google-cloud-rust's preflight.go):
// exec.Command, combined-output-style error reporting via
// *exec.ExitError. Launcher adapts that run-to-completion idiom into a
// background-process model by wiring stdout/stderr pipes through a
// bufio.Scanner, the same line-tailing shape internal/watch uses for its
// SSE stream (spec's out-of-scope "process launch + log tailing"
// collaborator).
package launcher

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"sync"

	"github.com/pkg/errors"

	"github.com/brpbridge/bridge/internal/logging"
)

// LogLine is one line read from the launched process's stdout or stderr.
type LogLine struct {
	Stream string // "stdout" or "stderr"
	Text   string
}

// Process is a launched engine instance. Logs yields its combined
// stdout/stderr, line by line, until the process exits or Stop is called.
type Process struct {
	cmd     *exec.Cmd
	logs    chan LogLine
	cancel  context.CancelFunc
	done    chan struct{}
	waitMu  sync.Mutex
	waitErr error
}

// Launch starts name with args under ctx, wiring its stdout and stderr
// into the returned Process's Logs channel. The caller owns the Process
// and should eventually call Stop or Wait.
func Launch(ctx context.Context, name string, args ...string) (*Process, error) {
	procCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(procCtx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "launcher: stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "launcher: stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, errors.Wrapf(err, "launcher: starting %s", name)
	}

	p := &Process{
		cmd:    cmd,
		logs:   make(chan LogLine),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	var tailWG sync.WaitGroup
	tailWG.Add(2)
	go p.tail(procCtx, "stdout", stdout, &tailWG)
	go p.tail(procCtx, "stderr", stderr, &tailWG)

	go func() {
		tailWG.Wait()
		p.waitMu.Lock()
		p.waitErr = cmd.Wait()
		p.waitMu.Unlock()
		close(p.logs)
		close(p.done)
	}()

	return p, nil
}

// Logs returns the channel of tailed log lines. It is closed once the
// process has exited and both streams are drained.
func (p *Process) Logs() <-chan LogLine { return p.logs }

// Stop signals the process's context to cancel, causing exec to kill it.
func (p *Process) Stop() { p.cancel() }

// Wait blocks until the process has exited and its log streams are
// drained, returning the process's exit error, if any.
func (p *Process) Wait() error {
	<-p.done
	p.waitMu.Lock()
	defer p.waitMu.Unlock()
	return p.waitErr
}

func (p *Process) tail(ctx context.Context, stream string, r io.Reader, wg *sync.WaitGroup) {
	defer wg.Done()
	log := logging.From(ctx).WithField("stream", stream)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := LogLine{Stream: stream, Text: scanner.Text()}
		select {
		case p.logs <- line:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Debug("launcher: log stream ended with error")
	}
}
