package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"comall/internal/observability"
	"comall/internal/telemetry"
	"comall/internal/ws"
)

func main() {
	ctx := context.Background()

	shutdownTracing, err := telemetry.InitTracing(ctx, "comall-chatd")
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	if amqpURL := getEnv("AMQP_URL", ""); amqpURL != "" {
		publisher, err := observability.NewAMQPPublisher(amqpURL, getEnv("AMQP_EXCHANGE", "comall.events"))
		if err != nil {
			log.Printf("event publishing disabled: %v", err)
		} else {
			defer publisher.Close()
			observability.SetPublisher(publisher)
		}
	}

	presence := ws.NewPresence()
	msgRouter := ws.NewRouter(presence)
	wsHandler := ws.NewHandler(presence, msgRouter)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("comall-chatd"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Server is running"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", wsHandler.Handle)

	port := getEnv("PORT", "8081")
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
