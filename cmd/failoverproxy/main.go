package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kagehq/failover/config"
	"github.com/kagehq/failover/version"
)

// MARK: main
// Application entry point.
func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	versionFlag := fs.Bool("version", false, "Show version information")
	fs.Parse(os.Args[1:])

	if *versionFlag {
		fmt.Printf("failoverproxy v%s\n", version.AsString())
		os.Exit(0)
	}

	if err := run(flags.ConfigPath(), flags); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// MARK: run
// Runs the complete application lifecycle: build, start, wait for
// shutdown signals, then wait for every goroutine to exit cleanly.
func run(configPath string, flags *config.Flags) error {
	app, err := newApplication(configPath, flags)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.context = ctx
	app.cancel = cancel
	defer cancel()

	if err := app.start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	app.handleSignals(flags)
	app.waitGroup.Wait()

	if app.fatal.Load() {
		return fmt.Errorf("application terminated due to a fatal server error")
	}

	return nil
}
