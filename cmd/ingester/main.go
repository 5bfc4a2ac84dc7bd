package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/a38062an/uk-econ-insight-agent/db"
	"github.com/a38062an/uk-econ-insight-agent/internal/chunker"
	"github.com/a38062an/uk-econ-insight-agent/internal/config"
	"github.com/a38062an/uk-econ-insight-agent/internal/ingest"
	"github.com/a38062an/uk-econ-insight-agent/internal/repository"
	"github.com/a38062an/uk-econ-insight-agent/internal/tagger"
	"github.com/a38062an/uk-econ-insight-agent/pkg/embedding"
	"github.com/a38062an/uk-econ-insight-agent/pkg/feeds"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if len(cfg.Feeds) == 0 {
		slog.Error("no feeds configured")
		return
	}

	var clients []feeds.Client
	for _, feed := range cfg.Feeds {
		clients = append(clients, feeds.NewRSSClient(feed.Name, feed.URL))
	}

	chunkRepo := repository.NewChunkRepository(db.DB)
	embedder := embedding.NewOpenAIClient(cfg.OpenAIKey)

	pipeline := ingest.NewPipeline(clients, tagger.New(), chunker.NewSemantic(embedder, cfg.SimilarityThreshold),
		embedder, chunkRepo, cfg.ArticlesPerFeed)

	stats := pipeline.Run(context.Background())

	slog.Info("ingestion cycle finished",
		"feeds_fetched", stats.FeedsFetched, "feeds_failed", stats.FeedsFailed,
		"articles", stats.Articles, "saved", stats.Saved, "duplicated", stats.Duplicated, "errors", stats.Errors)
}
