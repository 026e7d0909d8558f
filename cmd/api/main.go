package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"comall/internal/db"
	"comall/internal/handlers"
	"comall/internal/observability"
	"comall/internal/rabbitmq"
	"comall/internal/repositories"
	"comall/internal/telemetry"
)

func main() {
	ctx := context.Background()

	shutdownTracing, err := telemetry.InitTracing(ctx, "comall-api")
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(getEnv("AMQP_URL", ""), getEnv("AMQP_EXCHANGE", "comall.events"))
	defer publisher.Close()
	audit := telemetry.NewAuditEmitter(publisher, "audit.comall-api", "comall-api", getEnv("ENVIRONMENT", "development"))

	userRepo := repositories.NewUserRepo(database)
	friendRepo := repositories.NewFriendRepo(database)

	authHandler := handlers.NewAuthHandler(userRepo, audit)
	userHandler := handlers.NewUserHandler(userRepo)
	friendHandler := handlers.NewFriendHandler(userRepo, friendRepo, audit)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("comall-api"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/comall")
	{
		api.POST("/user-signup", authHandler.Signup)
		api.POST("/user-login", authHandler.Login)
		api.GET("/users", userHandler.ListUsers)
		api.POST("/send-friend-request", friendHandler.SendFriendRequest)
		api.GET("/pending-friend-requests", friendHandler.ListPendingRequests)
		api.GET("/accept-friend-request", friendHandler.AcceptFriendRequest)
		api.GET("/reject-friend-request", friendHandler.RejectFriendRequest)
		api.GET("/myfriends", friendHandler.ListFriends)
	}

	handlers.RegisterDebugRoutes(router, audit, getEnv("DEBUG_ROUTES", "") == "true")

	port := getEnv("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
