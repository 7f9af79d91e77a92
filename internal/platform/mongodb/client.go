package mongodb

import (
	"context"
	"fmt"
	"time"

	"arta_auction_backend/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// NewDatabase connects to MONGO_URI and returns MONGO_DATABASE. Without a URI it
// returns a nil database and a no-op cleanup.
func NewDatabase(cfg *config.Config, logger *zap.Logger) (*mongo.Database, func(), error) {
	log := logger.Named("mongodb")
	if cfg.MongoURI == "" {
		return nil, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("pinging MongoDB: %w", err)
	}
	log.Info("MongoDB connected", zap.String("database", cfg.MongoDatabase))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Error("Error disconnecting MongoDB", zap.Error(err))
			return
		}
		log.Info("MongoDB connection closed.")
	}
	return client.Database(cfg.MongoDatabase), cleanup, nil
}
