package server

import (
	"github.com/gin-gonic/gin"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/http/handlers"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/http/middleware"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	HealthHandler   *handlers.HealthHandler
	ClientHandler   *handlers.ClientHandler
	ContractHandler *handlers.ContractHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	{
		// Clients
		api.POST("/clients", cfg.ClientHandler.Create)
		api.POST("/clients/batch", cfg.ClientHandler.CreateBatch)
		api.GET("/clients/:clientId", cfg.ClientHandler.Get)
		api.PUT("/clients/:clientId", cfg.ClientHandler.Update)
		api.DELETE("/clients/:clientId", cfg.ClientHandler.Delete)

		// Contracts
		api.POST("/clients/:clientId/contracts", cfg.ContractHandler.Create)
		api.POST("/clients/:clientId/contracts/batch", cfg.ContractHandler.CreateBatch)
		api.GET("/clients/:clientId/contracts", cfg.ContractHandler.ListForClient)
		api.GET("/clients/:clientId/contracts/sum", cfg.ContractHandler.SumActive)
		api.PATCH("/contracts/:id/cost", cfg.ContractHandler.UpdateCost)
		api.DELETE("/contracts/:id", cfg.ContractHandler.Delete)
	}

	return router
}
