// Package transport runs the newline-delimited stdio loop between host
// and plugin: one request line in, one response line out. It enforces
// the maximum message size before any byte reaches the parser, throttles
// request processing, and emits a periodic heartbeat while idle.
package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/omniflow/jsonplug/internal/config"
	"github.com/omniflow/jsonplug/internal/document"
	"github.com/omniflow/jsonplug/internal/protocol"
	"github.com/omniflow/jsonplug/internal/ratelimit"
)

// ErrLineTooLong reports an incoming line that exceeds the configured
// maximum. The oversized line is drained and rejected without being
// parsed.
var ErrLineTooLong = errors.New("incoming message exceeds maximum length")

// Loop ties the reader, the handler and the writer together for the
// lifetime of the plugin process.
type Loop struct {
	cfg     *config.Config
	handler *protocol.Handler
	log     *zap.Logger
	in      *bufio.Reader
	out     *bufio.Writer
	limiter *ratelimit.Limiter
}

// New builds a loop reading requests from in and writing responses to
// out.
func New(cfg *config.Config, h *protocol.Handler, log *zap.Logger, in io.Reader, out io.Writer) *Loop {
	return &Loop{
		cfg:     cfg,
		handler: h,
		log:     log,
		in:      bufio.NewReaderSize(in, 64*1024),
		out:     bufio.NewWriter(out),
		limiter: ratelimit.New(cfg.RateLimit),
	}
}

type lineResult struct {
	data []byte
	err  error
}

// Run serves requests until the input closes, the host sends a shutdown
// message, or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if l.cfg.Heartbeat > 0 {
		go l.heartbeat(ctx)
	}

	lines := make(chan lineResult)
	go l.readLines(ctx, lines)

	l.log.Info("plugin started",
		zap.String("name", l.cfg.Name),
		zap.String("version", l.cfg.Version),
		zap.Int("max_line", l.cfg.MaxLine))

	for {
		select {
		case <-ctx.Done():
			l.log.Info("shutdown requested by signal")
			return nil
		case res, ok := <-lines:
			if !ok {
				l.log.Info("input closed, shutting down")
				return nil
			}
			stop, err := l.process(ctx, res)
			if err != nil {
				return err
			}
			if stop {
				l.log.Info("shutdown requested by host")
				return nil
			}
		}
	}
}

func (l *Loop) process(ctx context.Context, res lineResult) (stop bool, err error) {
	switch {
	case errors.Is(res.err, ErrLineTooLong):
		l.log.Warn("rejected oversized message", zap.Int("max_line", l.cfg.MaxLine))
		return false, l.writeLine(protocol.EncodeError(document.HeapAllocator{}, "",
			protocol.CodeBadRequest, fmt.Sprintf("message exceeds maximum length %d", l.cfg.MaxLine)))
	case res.err != nil:
		return false, fmt.Errorf("reading request: %w", res.err)
	}

	if len(res.data) == 0 {
		return false, nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		// Context cancelled while throttled.
		return true, nil
	}

	out, shutdown := l.handler.Handle(res.data)
	if err := l.writeLine(out); err != nil {
		return false, err
	}
	return shutdown, nil
}

func (l *Loop) writeLine(line []byte) error {
	if _, err := l.out.Write(line); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	if err := l.out.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return l.out.Flush()
}

// readLines feeds complete lines into the channel until EOF or a read
// failure. Lines longer than MaxLine are drained and reported as
// ErrLineTooLong without buffering the excess.
func (l *Loop) readLines(ctx context.Context, lines chan<- lineResult) {
	defer close(lines)
	for {
		data, err := l.readBounded()
		if errors.Is(err, io.EOF) && len(data) == 0 {
			return
		}
		res := lineResult{data: data}
		if err != nil && !errors.Is(err, io.EOF) {
			res = lineResult{err: err}
		}
		select {
		case lines <- res:
		case <-ctx.Done():
			return
		}
		if res.err != nil && !errors.Is(res.err, ErrLineTooLong) {
			return
		}
	}
}

func (l *Loop) readBounded() ([]byte, error) {
	var line []byte
	for {
		chunk, err := l.in.ReadSlice('\n')
		line = append(line, chunk...)
		if len(line) > l.cfg.MaxLine {
			if drainErr := l.drainLine(errors.Is(err, bufio.ErrBufferFull)); drainErr != nil {
				return nil, drainErr
			}
			return nil, ErrLineTooLong
		}
		switch {
		case err == nil:
			return trimEOL(line), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			return trimEOL(line), io.EOF
		default:
			return nil, err
		}
	}
}

// drainLine discards the remainder of an oversized line.
func (l *Loop) drainLine(pending bool) error {
	for pending {
		_, err := l.in.ReadSlice('\n')
		switch {
		case err == nil, errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		default:
			return err
		}
	}
	return nil
}

func trimEOL(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

func (l *Loop) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.Heartbeat)
	defer ticker.Stop()
	count := 0
	for {
		select {
		case <-ctx.Done():
			l.log.Debug("heartbeat stopping")
			return
		case <-ticker.C:
			count++
			l.log.Info("heartbeat", zap.Int("count", count))
		}
	}
}
