package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/a38062an/uk-econ-insight-agent/db"
	"github.com/a38062an/uk-econ-insight-agent/internal/agent"
	"github.com/a38062an/uk-econ-insight-agent/internal/chunker"
	"github.com/a38062an/uk-econ-insight-agent/internal/config"
	"github.com/a38062an/uk-econ-insight-agent/internal/conversation"
	"github.com/a38062an/uk-econ-insight-agent/internal/handler"
	"github.com/a38062an/uk-econ-insight-agent/internal/ingest"
	"github.com/a38062an/uk-econ-insight-agent/internal/repository"
	"github.com/a38062an/uk-econ-insight-agent/internal/retrieve"
	"github.com/a38062an/uk-econ-insight-agent/internal/tagger"
	"github.com/a38062an/uk-econ-insight-agent/pkg/embedding"
	"github.com/a38062an/uk-econ-insight-agent/pkg/feeds"
	"github.com/a38062an/uk-econ-insight-agent/pkg/llm"
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

	var conversations conversation.Store = conversation.NewMemoryStore()
	if cfg.RedisURL != "" {
		err = db.ConnectRedis()
		if err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer db.CloseRedis()
		conversations = conversation.NewRedisStore(db.Redis)
	}

	chunkRepo := repository.NewChunkRepository(db.DB)
	embedder := embedding.NewOpenAIClient(cfg.OpenAIKey)

	var router llm.Router
	var generator llm.Generator
	if cfg.AnthropicKey != "" {
		client := llm.NewAnthropicClient(cfg.AnthropicKey)
		router, generator = client, client
	} else {
		client := llm.NewOpenAIClient(cfg.OpenAIKey)
		router, generator = client, client
	}

	retriever := retrieve.New(chunkRepo, embedder, retrieve.Options{
		SummaryFetchK: cfg.SummaryFetchK,
		SummaryKeepN:  cfg.SummaryKeepN,
		TrendK:        cfg.TrendK,
		FactK:         cfg.FactK,
		FactMaxDist:   cfg.FactMaxDist,
	})

	econAgent := agent.New(router, generator, retriever, chunkRepo, conversations, embedder, cfg.HistoryPairs)

	var clients []feeds.Client
	for _, feed := range cfg.Feeds {
		clients = append(clients, feeds.NewRSSClient(feed.Name, feed.URL))
	}
	pipeline := ingest.NewPipeline(clients, tagger.New(), chunker.NewSemantic(embedder, cfg.SimilarityThreshold),
		embedder, chunkRepo, cfg.ArticlesPerFeed)

	if cfg.IngestIntervalMin > 0 {
		go runIngestTicker(pipeline, time.Duration(cfg.IngestIntervalMin)*time.Minute)
	}

	chatHandler := handler.NewChatHandler(econAgent)
	ingestHandler := handler.NewIngestHandler(pipeline)
	reportHandler := handler.NewReportHandler(chunkRepo)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/chat", chatHandler.PostChat)
	r.POST("/ingest", ingestHandler.PostIngest)
	r.GET("/reports", reportHandler.GetReports)
	r.GET("/reports/latest", reportHandler.GetLatestReport)
	r.GET("/health", reportHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func runIngestTicker(pipeline *ingest.Pipeline, interval time.Duration) {
	slog.Info("starting ingestion ticker", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		stats, ok := pipeline.TryRun(context.Background())
		if !ok {
			slog.Info("ingestion already running, skipping scheduled cycle")
			continue
		}
		slog.Info("scheduled ingestion cycle finished",
			"feeds_fetched", stats.FeedsFetched, "saved", stats.Saved, "duplicated", stats.Duplicated, "errors", stats.Errors)
	}
}
