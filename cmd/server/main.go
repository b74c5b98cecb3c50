package main

import (
	"github.com/raakeshmj/vaultbox/internal/config"
	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("failed to load config", "error", err)
	}

	log := logger.New(cfg.LogLevel)

	srv := server.New(cfg, log)
	if err := srv.Start(); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
