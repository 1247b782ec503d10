package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/logger"
	"github.com/joho/godotenv"
	"github.com/lotterysystem/lottery-backend/api/routes"
	"github.com/lotterysystem/lottery-backend/internal/config"
	"github.com/lotterysystem/lottery-backend/internal/handlers"
	"github.com/lotterysystem/lottery-backend/internal/models"
	"github.com/lotterysystem/lottery-backend/internal/notify"
	"github.com/lotterysystem/lottery-backend/internal/repositories"
	mongorepo "github.com/lotterysystem/lottery-backend/internal/repositories/mongodb"
	"github.com/lotterysystem/lottery-backend/internal/services"
	"github.com/lotterysystem/lottery-backend/pkg/mongodb"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := logger.Init("lottery-backend", true, false, os.Stderr)
	defer log.Close()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT.Secret is not configured")
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelConnect()

	mongoClient, err := mongodb.NewClient(connectCtx, cfg.MongoDB.URI)
	if err != nil {
		logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	ledgerRepoImpl := mongorepo.NewLedgerRepository(db)
	if err := ledgerRepoImpl.EnsureIndexes(connectCtx); err != nil {
		logger.Fatalf("Failed to create indexes: %v", err)
	}
	var ledgerRepo repositories.LedgerRepository = ledgerRepoImpl
	var drawRepo repositories.DrawRepository = mongorepo.NewDrawRepository(db)

	// Notification hub for display clients
	hub := notify.NewHub()

	// Services
	authService := services.NewAuthService(ledgerRepo, cfg)
	ticketService := services.NewTicketService(ledgerRepo, cfg.Lottery)
	drawService := services.NewDrawService(ledgerRepo, drawRepo, models.DefaultPayoutTable, hub)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:   handlers.NewAuthHandler(authService),
		TicketHandler: handlers.NewTicketHandler(ticketService),
		DrawHandler:   handlers.NewDrawHandler(drawService),
		WSHandler:     handlers.NewWSHandler(hub),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exiting")
}
