// Command gather starts the event planning service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gather/internal/gather"
	"gather/internal/gather/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Default()
	if err := config.ApplyEnvOverrides(cfg, os.Environ()); err != nil {
		log.Fatalf("invalid environment: %v", err)
	}
	applyFlags(cfg, os.Args[1:])

	app, err := gather.NewApplication(cfg)
	if err != nil {
		log.Fatalf("failed to create application: %v", err)
	}

	if err := app.Start(ctx); err != nil {
		log.Fatalf("failed to start application: %v", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("failed to shutdown application: %v", err)
	}
}
