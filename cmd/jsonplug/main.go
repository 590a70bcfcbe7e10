// Command jsonplug is the template plugin: it speaks the
// newline-delimited JSON protocol on stdin/stdout, logs structured
// events to stderr, and serves the built-in echo, reverse, compute and
// query actions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/omniflow/jsonplug/internal/config"
	"github.com/omniflow/jsonplug/internal/exit"
	"github.com/omniflow/jsonplug/internal/protocol"
	"github.com/omniflow/jsonplug/internal/transport"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		res := exit.Failuref("configuration: %v", err)
		res.Print()
		return res.ExitCode
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		res := exit.Failuref("logger: %v", err)
		res.Print()
		return res.ExitCode
	}
	defer func() { _ = log.Sync() }()

	handler := protocol.NewHandler(cfg)
	loop := transport.New(cfg, handler, log, os.Stdin, os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := loop.Run(ctx); err != nil {
		log.Error("plugin terminated", zap.Error(err))
		return 1
	}
	log.Info("plugin stopped")
	return 0
}

// newLogger builds a structured stderr logger; stdout stays reserved
// for protocol responses.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
