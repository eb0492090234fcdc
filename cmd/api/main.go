package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodlens/backend/config"
	"github.com/foodlens/backend/internal/database"
	"github.com/foodlens/backend/internal/server"
	"github.com/foodlens/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	sqlDB, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to open health-check connection: %v", err)
	}

	opts := server.Options{SQLDB: sqlDB}

	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("Redis unavailable, continuing without cache: %v", err)
	} else {
		opts.Redis = redisClient
	}

	if llm, err := service.NewLLMService(); err != nil {
		log.Printf("LLM service disabled: %v", err)
	} else {
		opts.LLM = llm
	}

	ctx := context.Background()
	if s3cfg, err := config.NewS3Config(ctx); err != nil {
		log.Printf("S3 storage disabled: %v", err)
	} else {
		opts.S3 = s3cfg
	}

	srv := server.New(cfg, db, opts)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s", cfg.ServerPort)
		errChan <- srv.Start(cfg.ServerPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
