package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/signalfx/haproxy-monitor/internal/core"
	"github.com/signalfx/haproxy-monitor/internal/core/config"
)

var (
	// Version for the monitor
	Version string

	// BuiltTime for the monitor
	BuiltTime string
)

func init() {
	log.SetFormatter(&prefixed.TextFormatter{})
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)
}

func main() {
	if len(os.Args) == 2 && os.Args[1] == "version" {
		fmt.Printf("haproxy-monitor-version: %s, built-time: %s\n", Version, BuiltTime)
		os.Exit(0)
	}

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	conf, err := config.Parse(os.Args[0], args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		log.WithError(err).Error("Could not load configuration")
		return 1
	}

	if conf.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	logger := log.StandardLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Only interval mode runs long enough for signals to matter, but a
	// single cycle should stop promptly as well.
	interruptCh := make(chan os.Signal, 1)
	signal.Notify(interruptCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-interruptCh:
			log.Info("Interrupt signal received, stopping")
			cancel()
		case <-ctx.Done():
		}
	}()

	log.WithFields(log.Fields{
		"sockets": len(conf.Sockets),
		"version": Version,
	}).Debug("Starting haproxy-monitor")

	if err := core.Startup(ctx, conf, logger); err != nil {
		log.WithError(err).Error("HAProxy stats collection failed")
		return 1
	}
	return 0
}
