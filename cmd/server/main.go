package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/sensorsim/internal/core/observability/log"
	"github.com/zeusync/sensorsim/internal/core/simulation"
	"github.com/zeusync/sensorsim/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a .json, .yaml or .toml simulation config")
	listen := flag.String("listen", "", "override the listen address")
	maxTicks := flag.Uint64("max-ticks", 0, "stop ticking after this many ticks (0 = config value)")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		loaded, err := simulation.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *maxTicks > 0 {
		cfg.MaxTicks = *maxTicks
	}

	logger, err := injector.InitializeLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	srv, err := injector.InitializeServer(cfg)
	if err != nil {
		logger.Error("building server failed", log.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)

	// Start the server
	if err = srv.Start(ctx); err != nil {
		logger.Error("starting server failed", log.Error(err))
		os.Exit(1)
	}

	<-stopCh
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err = srv.Stop(stopCtx); err != nil {
		logger.Error("stopping server failed", log.Error(err))
	}
}
