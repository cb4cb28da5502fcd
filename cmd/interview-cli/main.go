package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"interview-app/internal/config"
	"interview-app/internal/terminal"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	postulationID := flag.String("postulation", "", "postulation to interview for (required)")
	sessionID := flag.String("session", "", "session id of an earlier attempt")
	server := flag.String("server", "", "interview service base URL")
	timeout := flag.Duration("timeout", 0, "HTTP timeout")
	budget := flag.Int("budget", 0, "time budget in seconds")
	verbose := flag.Bool("v", false, "log session events to stderr")
	flag.Parse()

	if *postulationID == "" {
		fmt.Fprintln(os.Stderr, "error: --postulation is required")
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.Client.ServerURL = *server
		case "timeout":
			cfg.Client.HTTPTimeout = *timeout
		case "budget":
			cfg.Client.TimeBudget = *budget
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "interview-cli ", log.LstdFlags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = terminal.Run(ctx, os.Stdin, os.Stdout, terminal.Config{
		PostulationID: *postulationID,
		SessionID:     *sessionID,
		ServerURL:     cfg.Client.ServerURL,
		HTTPTimeout:   cfg.Client.HTTPTimeout,
		TimeBudget:    cfg.Client.TimeBudget,
		RedirectDelay: cfg.Client.RedirectDelay,
		Logger:        logger,
		ClockInterval: time.Second,
	})
	if err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
