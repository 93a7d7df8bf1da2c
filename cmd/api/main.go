package main

import (
	"context"
	"log"

	"github.com/craftwise/craftwise-backend/config"
	"github.com/craftwise/craftwise-backend/internal/analysis"
	"github.com/craftwise/craftwise-backend/internal/bootstrap"
	"github.com/craftwise/craftwise-backend/internal/products"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	var cache *products.Cache
	if redisClient != nil {
		defer redisClient.Close()
		cache = products.NewCache(redisClient)
	}

	orchestrator := analysis.NewOrchestrator(analysis.NewOpenAIClient(cfg.OpenAI))
	searcher := products.NewSearcher(products.NewClient(cfg.Serp.BaseURL, cfg.Serp.APIKey), cache)

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "craftwise-backend",
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DevMode:        cfg.DevMode(),
		DB:             db,
		Orchestrator:   orchestrator,
		Searcher:       searcher,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
