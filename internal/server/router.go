package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/gigpost-backend/internal/handlers"
	"github.com/yungbote/gigpost-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware  *middleware.AuthMiddleware
	RequestHandler  *handlers.RequestHandler
	ProviderHandler *handlers.ProviderHandler
	BargainHandler  *handlers.BargainHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/gigpost/requests")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Requests
	protected.POST("", cfg.RequestHandler.Create)
	protected.POST("/schedule/:runAt", cfg.RequestHandler.CreateScheduled)
	protected.GET("/:requestReference", cfg.RequestHandler.GetByReference)
	protected.PUT("/:requestReference/summary", cfg.RequestHandler.UpdateSummary)
	protected.PUT("/:requestReference/amount", cfg.RequestHandler.UpdateAmount)
	protected.PUT("/:requestReference/status", cfg.RequestHandler.UpdateStatus)

	// Service providers
	protected.POST("/:requestReference/service-providers", cfg.ProviderHandler.Add)
	protected.DELETE("/:requestReference/service-providers/:investmentReference", cfg.ProviderHandler.Remove)
	protected.DELETE("/:requestReference/service-providers/:investmentReference/ttl", cfg.ProviderHandler.RemoveByTTL)
	protected.DELETE("/:requestReference/service-providers/:investmentReference/platform", cfg.ProviderHandler.RemoveByPlatform)
	protected.POST("/:requestReference/service-providers/:investmentReference/payment", cfg.ProviderHandler.MakePayment)

	// Bargains. Accepting replaces any earlier accepted offer, rejecting
	// declines the offer, and the trailing /delete withdraws it.
	protected.POST("/:requestReference/bargains", cfg.BargainHandler.Add)
	protected.PUT("/:requestReference/bargains/:bargainReference", cfg.BargainHandler.Accept)
	protected.DELETE("/:requestReference/bargains/:bargainReference", cfg.BargainHandler.Reject)
	protected.DELETE("/:requestReference/bargains/:bargainReference/delete", cfg.BargainHandler.Delete)

	// Reads
	protected.GET("/newsfeed", cfg.RequestHandler.Newsfeed)
	protected.GET("/newsfeed/status", cfg.RequestHandler.NewsfeedByStatus)
	protected.GET("/list", cfg.RequestHandler.List)
	protected.GET("/list/status", cfg.RequestHandler.ListByStatus)
	protected.GET("/user/requests", cfg.RequestHandler.UserRequests)
	protected.GET("/user/investments", cfg.RequestHandler.UserInvestments)
	protected.GET("/statistics", cfg.RequestHandler.Statistics)

	return router
}
