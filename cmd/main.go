package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasktrail/tasktrail/broker"
	"tasktrail/tasktrail/config"
	"tasktrail/tasktrail/database"
	"tasktrail/tasktrail/middleware"
	"tasktrail/tasktrail/routes"
	"tasktrail/tasktrail/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	natsAvailable := true
	if err := broker.InitProducer(cfg.NatsURL); err != nil {
		log.Printf("Warning: Failed to initialize NATS producer: %v", err)
		log.Println("The application will continue, but notifications and event streaming are disabled")
		natsAvailable = false
	} else {
		defer broker.CloseProducer()
	}

	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	services.AuthServiceInstance = authService

	userService := services.NewUserService(authService)
	services.UserServiceInstance = userService

	webSocketService := services.NewWebSocketService()
	services.WebSocketServiceInstance = webSocketService
	webSocketService.Start(cfg)
	defer webSocketService.Stop()

	if natsAvailable {
		mailConsumer, err := broker.StartMailConsumer(cfg, broker.NewSMTPSender(cfg))
		if err != nil {
			log.Printf("Warning: Failed to start notification mail consumer: %v", err)
		} else {
			defer mailConsumer.Stop()
		}
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	routes.RegisterAuthRoutes(router, db, authService, userService)
	routes.RegisterWebSocketRoutes(router, []byte(cfg.JWTSecret), webSocketService)

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(authService))
	routes.RegisterUserRoutes(protected, db, userService)
	routes.RegisterTaskRoutes(protected, db, services.TaskServiceInstance)
	routes.RegisterSubTaskRoutes(protected, db, services.SubTaskServiceInstance)
	routes.RegisterCommentRoutes(protected, db, services.CommentServiceInstance)

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Forced shutdown: %v", err)
		}
	}()

	log.Printf("API server is running on port %s", cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	// Deferred cleanup (database, broker, consumers) runs on return
}
