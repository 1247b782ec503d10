package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lotterysystem/lottery-backend/internal/config"
	"github.com/lotterysystem/lottery-backend/internal/handlers"
	"github.com/lotterysystem/lottery-backend/internal/middleware"
)

// HandlerDependencies bundles the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler   *handlers.AuthHandler
	TicketHandler *handlers.TicketHandler
	DrawHandler   *handlers.DrawHandler
	WSHandler     *handlers.WSHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedHosts))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.POST("/register", deps.AuthHandler.Register)
	router.POST("/login", deps.AuthHandler.Login)
	router.POST("/admin-login", deps.AuthHandler.AdminLogin)
	router.GET("/ws", deps.WSHandler.Subscribe)

	// Authenticated user routes
	user := router.Group("/")
	user.Use(middleware.JWTAuthMiddleware(cfg))
	{
		user.POST("/buy-ticket", deps.TicketHandler.BuyTicket)
		user.POST("/check-results", deps.TicketHandler.CheckResults)
		user.GET("/balance", deps.TicketHandler.GetBalance)
	}

	// Admin routes
	admin := router.Group("/")
	admin.Use(middleware.JWTAuthMiddleware(cfg), middleware.RequireAdmin())
	{
		admin.POST("/set-winner", deps.DrawHandler.SetWinner)
		admin.POST("/announce-results", deps.DrawHandler.AnnounceResults)
		admin.GET("/view-tickets", deps.TicketHandler.ViewTickets)
		admin.GET("/users", deps.AuthHandler.GetAllUsers)
	}

	return router
}
