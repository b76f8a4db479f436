package main

import (
	"fmt"
	"os"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/data/db"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/data/repos"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/http/handlers"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/logger"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/server"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/services"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	clientRepo := repos.NewClientRepo(thePG, log)
	contractRepo := repos.NewContractRepo(thePG, log)

	// Services
	log.Info("Setting up services from main...")
	clientService := services.NewClientService(thePG, log, clientRepo, contractRepo)
	contractService := services.NewContractService(thePG, log, clientRepo, contractRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthHandler := handlers.NewHealthHandler()
	clientHandler := handlers.NewClientHandler(log, clientService)
	contractHandler := handlers.NewContractHandler(log, contractService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:             log,
		HealthHandler:   healthHandler,
		ClientHandler:   clientHandler,
		ContractHandler: contractHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
