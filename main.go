package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hbomb79/mediagate/internal"
	"github.com/hbomb79/mediagate/pkg/logger"
)

var log = logger.Get("Bootstrap")

// main is the entry point to the program. The configuration is loaded
// from the file named by -config (if any) and the environment, after which
// the gateway runs until it is interrupted.
func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	config, err := internal.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("Bootstrap", "Failed to load configuration: %v\n", err)
	}

	level, _ := config.MinLogLevel()
	logger.SetMinLoggingLevel(level.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Emit(logger.INFO, "Starting media gateway...\n")
	if err := internal.New(*config).Run(ctx); err != nil {
		stop()
		logger.Fatalf("Bootstrap", "Gateway stopped unexpectedly: %v\n", err)
	}

	log.Emit(logger.STOP, "Gateway stopped\n")
}
