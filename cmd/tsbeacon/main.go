package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"tsbeacon/internal/beacon"
	"tsbeacon/internal/config"
	"tsbeacon/internal/logger"
	"tsbeacon/internal/pinger"
)

const (
	exitRuntimeError = 1
	exitUsageError   = 2
)

const preflightTimeout = 2 * time.Second

func main() {
	os.Exit(run(os.Args))
}

// run is main without the os.Exit, so the exit-code mapping is testable.
func run(args []string) int {
	program := "tsbeacon"
	if len(args) > 0 {
		program = args[0]
	}

	cfg, err := config.Parse(args[1:])
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			fmt.Print(config.Usage(program))
			return 0
		}
		fmt.Fprintf(os.Stderr, "%s\n%s", err, config.Usage(program))
		return exitUsageError
	}

	log, closeLog, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntimeError
	}
	defer closeLog()
	log = log.With(slog.String("session", uuid.NewString()))

	if cfg.Preflight {
		pinger.Preflight(cfg.Addr.String(), preflightTimeout, log)
	}

	b, err := beacon.Open(cfg, log)
	if err != nil {
		log.Error("Socket setup failed.", "error", err)
		return exitRuntimeError
	}

	log.Info("Beacon started.",
		"dest", fmt.Sprintf("%s:%d", cfg.Addr, cfg.Port),
		"interval", cfg.Interval,
	)

	// Run only returns on a fatal clock condition; normal operation ends
	// with external process termination.
	if err := b.Run(); err != nil {
		log.Error("Fatal clock error.", "error", err)
		return exitRuntimeError
	}
	return 0
}
