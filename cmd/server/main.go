package main

import (
	"context"
	"flag"
	"log"

	"project-crm-api/internal/auth"
	"project-crm-api/internal/config"
	"project-crm-api/internal/database"
	"project-crm-api/internal/logging"
	"project-crm-api/internal/routes"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.GetEnv("CONFIG_PATH", "config.yaml"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logger.Sync()
	logging.SetLogger(logger)

	// Init database
	if err := database.InitDB(cfg.Database, logger); err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	if err := auth.EnsureAccount(context.Background(), database.GetDB(), cfg.Auth.Username, cfg.Auth.Password, logger); err != nil {
		logger.Fatal("shared account setup failed", zap.Error(err))
	}

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes(cfg, logger)

	port := ":" + cfg.Server.Port
	logger.Info("server starting",
		zap.String("addr", port),
		zap.Strings("endpoints", []string{
			"POST   /api/auth/login",
			"GET    /api/tasks/kanban",
			"PATCH  /api/tasks/:id/status",
			"GET    /api/projects",
			"GET    /api/tags",
			"GET    /api/clients",
			"GET    /api/stats",
			"GET    /health",
			"GET    /metrics",
		}),
	)

	if err := ginRoutes.Run(port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
