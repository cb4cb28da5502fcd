package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"interview-app/internal/assessment"
	"interview-app/internal/assessment/sqlite"
	"interview-app/internal/bank"
	"interview-app/internal/config"
	"interview-app/internal/httpapi"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	bankPath := flag.String("bank", "", "question bank YAML file")
	questionCount := flag.Int("questions", 0, "questions per session")
	flag.Parse()

	logger := log.New(os.Stderr, "interview-service ", log.LstdFlags)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Service.Addr = *addr
		case "db":
			cfg.Service.DBPath = *dbPath
		case "bank":
			cfg.Service.BankPath = *bankPath
		case "questions":
			cfg.Service.QuestionCount = *questionCount
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	questionBank, err := bank.Load(cfg.Service.BankPath)
	if err != nil {
		logger.Fatalf("load question bank: %v", err)
	}

	store, err := sqlite.NewSQLiteStore(cfg.Service.DBPath)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer store.Close()

	service := assessment.NewService(store, store, questionBank, cfg.Service.QuestionCount, logger)
	server := &http.Server{
		Addr:              cfg.Service.Addr,
		Handler:           httpapi.NewRouter(service, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Printf("listening on %s (db=%s, %d questions in bank)", cfg.Service.Addr, cfg.Service.DBPath, questionBank.Len())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server failed: %v", err)
	}
}
