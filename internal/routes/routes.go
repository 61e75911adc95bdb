package routes

import (
	"project-crm-api/internal/auth"
	"project-crm-api/internal/config"
	"project-crm-api/internal/handlers"
	"project-crm-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRoutes builds the gin engine with public, protected and ops endpoints
func SetupRoutes(cfg *config.Config, log *zap.Logger) *gin.Engine {
	issuer := auth.NewIssuer(cfg.Auth)
	handlers.Configure(issuer, cfg.Storage)

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS())

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project CRM API is running",
		})
	})
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/auth/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(issuer))
	{
		protectedRoutes.GET("/auth/me", handlers.Me)

		// Task endpoints; /tasks/kanban is registered before /tasks/:id
		protectedRoutes.GET("/tasks", handlers.GetTasks)
		protectedRoutes.GET("/tasks/kanban", handlers.GetKanban)
		protectedRoutes.GET("/tasks/:id", handlers.GetTaskByID)
		protectedRoutes.POST("/tasks", handlers.CreateTask)
		protectedRoutes.PUT("/tasks/:id", handlers.UpdateTask)
		protectedRoutes.PATCH("/tasks/:id/status", handlers.UpdateTaskStatus)
		protectedRoutes.DELETE("/tasks/:id", handlers.DeleteTask)

		// Project endpoints
		protectedRoutes.GET("/projects", handlers.GetProjects)
		protectedRoutes.GET("/projects/:id", handlers.GetProjectByID)
		protectedRoutes.POST("/projects", handlers.CreateProject)
		protectedRoutes.PUT("/projects/:id", handlers.UpdateProject)
		protectedRoutes.DELETE("/projects/:id", handlers.DeleteProject)
		protectedRoutes.POST("/projects/:id/milestones", handlers.AddMilestone)
		protectedRoutes.PATCH("/projects/:id/milestones/:milestoneId", handlers.UpdateMilestone)
		protectedRoutes.DELETE("/projects/:id/milestones/:milestoneId", handlers.DeleteMilestone)

		// Tag endpoints
		protectedRoutes.GET("/tags", handlers.GetTags)
		protectedRoutes.POST("/tags", handlers.CreateTag)
		protectedRoutes.PUT("/tags/:id", handlers.UpdateTag)
		protectedRoutes.DELETE("/tags/:id", handlers.DeleteTag)

		// Client endpoints
		protectedRoutes.GET("/clients", handlers.GetClients)
		protectedRoutes.GET("/clients/:id", handlers.GetClientByID)
		protectedRoutes.POST("/clients", handlers.CreateClient)
		protectedRoutes.PUT("/clients/:id", handlers.UpdateClient)
		protectedRoutes.DELETE("/clients/:id", handlers.DeleteClient)

		// API key vault
		protectedRoutes.GET("/apikeys", handlers.GetAPIKeys)
		protectedRoutes.GET("/apikeys/:id", handlers.GetAPIKeyByID)
		protectedRoutes.POST("/apikeys", handlers.CreateAPIKey)
		protectedRoutes.PUT("/apikeys/:id", handlers.UpdateAPIKey)
		protectedRoutes.DELETE("/apikeys/:id", handlers.DeleteAPIKey)

		// Document metadata
		protectedRoutes.GET("/documents", handlers.GetDocuments)
		protectedRoutes.GET("/documents/:id", handlers.GetDocumentByID)
		protectedRoutes.POST("/documents", handlers.CreateDocument)
		protectedRoutes.PUT("/documents/:id", handlers.UpdateDocument)
		protectedRoutes.DELETE("/documents/:id", handlers.DeleteDocument)

		protectedRoutes.GET("/stats", handlers.GetStats)
	}

	return ginRouter
}
