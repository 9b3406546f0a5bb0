package main

import (
	"flag"
	"os"

	"gather/internal/gather/config"
)

// applyFlags overlays command line flags onto the config. Flags win over
// environment values.
func applyFlags(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("gather", flag.ExitOnError)
	addr := fs.String("http_addr", "", "http listen address")
	appURL := fs.String("app_url", "", "canonical application url")
	production := fs.Bool("production", false, "enable production mode")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	if *addr != "" {
		cfg.HTTPListenAddr = *addr
	}
	if *appURL != "" {
		cfg.AppURL = *appURL
	}
	if *production {
		cfg.Production = true
	}
}
