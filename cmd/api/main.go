package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "motostore/docs"
	"motostore/internal/adapter/http/routes"
	"motostore/internal/config"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Moto E-commerce API
// @version         1.0
// @description     Checkout and payment reconciliation for the motorcycle store, backed by DynamoDB.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[config] invalid configuration: %v", err)
	}
	log.Printf("[config] loaded provider=%s currency=%s port=%s", cfg.Payment.Provider, cfg.Payment.Currency, cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := routes.NewServer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err)
	}
	if err := server.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
