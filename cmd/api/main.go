package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akuan1997/concertweb/api/internal/config"
	"github.com/akuan1997/concertweb/api/internal/server"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := cfg.NewLogger(os.Stdout)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoConnectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		logger.Error("mongo connect failed", "error", err)
		os.Exit(1)
	}

	app, err := server.New(cfg, client, logger)
	if err != nil {
		logger.Error("server setup failed", "error", err)
		_ = client.Disconnect(context.Background())
		os.Exit(1)
	}
	if err := app.Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
