package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-api-filestore/internal/config"
	"github.com/go-api-filestore/internal/pkg/creds"
	"github.com/go-api-filestore/internal/storage"
	"github.com/go-api-filestore/internal/storage/dynamo"
	filestore "github.com/go-api-filestore/internal/storage/file"
	s3infra "github.com/go-api-filestore/internal/storage/s3"
	transporthttp "github.com/go-api-filestore/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	store := newStore(cfg)

	deps := &transporthttp.Deps{
		Store:  store,
		Hasher: creds.NewHasher(cfg.HashingSecret),
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, storage=%s)", cfg.AppPort, cfg.AppEnv, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// newStore selects the record store backend from configuration.
func newStore(cfg *config.Config) storage.Store {
	switch cfg.StorageBackend {
	case config.BackendDynamo:
		client := dynamo.NewClient(cfg)
		dynamo.Bootstrap(context.Background(), client, cfg.DynamoTable)
		return dynamo.NewStore(client, cfg.DynamoTable)
	case config.BackendS3:
		return s3infra.NewStore(s3infra.NewClient(cfg), cfg.S3Bucket)
	case config.BackendFile:
		return filestore.NewStore(cfg.DataDir)
	default:
		log.Fatalf("unknown storage backend %q", cfg.StorageBackend)
		return nil
	}
}
