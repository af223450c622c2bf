package main

import (
	"context"
	"log"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/feedback-forms/api/internal/config"
	mongostore "github.com/sngm3741/feedback-forms/api/internal/infrastructure/mongo"
	redisstore "github.com/sngm3741/feedback-forms/api/internal/infrastructure/redis"
	"github.com/sngm3741/feedback-forms/api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := cfg.Logger

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	var deps server.Dependencies
	if cfg.Storage == config.StorageMongo {
		clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
		client, err := mongo.Connect(ctx, clientOptions)
		if err != nil {
			logger.Fatalw("connect mongo", "error", err)
		}
		err = mongostore.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase), mongostore.Collections{
			Forms:     cfg.FormCollection,
			Feedbacks: cfg.FeedbackCollection,
			Users:     cfg.UserCollection,
		})
		if err != nil {
			logger.Warnw("ensure indexes", "error", err)
		}
		deps.Mongo = client
	} else {
		logger.Warnw("using in-memory storage; data is lost on restart")
	}

	if cfg.RedisAddr != "" {
		var client *goredis.Client
		client, err = redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatalw("connect redis", "error", err)
		}
		deps.Redis = client
	}

	app, err := server.New(cfg, deps)
	if err != nil {
		logger.Fatalw("build server", "error", err)
	}
	if err := app.Run(); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}
