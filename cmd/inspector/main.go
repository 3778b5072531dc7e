// Inspector serves the house inspection pipeline over HTTP.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/inonelg/housecheck/pkg/api"
	"github.com/inonelg/housecheck/pkg/config"
	"github.com/inonelg/housecheck/pkg/inference"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := getEnv("CONFIG_DIR", "./deploy/config")

	envPath := filepath.Join(configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("no .env file at %s, continuing with existing environment", envPath)
	}

	ginMode := getEnv("GIN_MODE", "release")
	gin.SetMode(ginMode)

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}

	client, err := inference.NewClient(cfg.Inference.Address)
	if err != nil {
		log.Fatalf("failed to connect to inference service at %s: %v", cfg.Inference.Address, err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slog.Error("error closing inference client", "error", err)
		}
	}()

	deps := api.NewDeps(cfg, client)
	router := api.NewRouter(deps)

	addr := cfg.Addr()
	slog.Info("starting inspector", "addr", addr, "config_dir", configDir)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
