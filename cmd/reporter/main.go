package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/a38062an/uk-econ-insight-agent/db"
	"github.com/a38062an/uk-econ-insight-agent/internal/config"
	"github.com/a38062an/uk-econ-insight-agent/internal/model"
	"github.com/a38062an/uk-econ-insight-agent/internal/repository"
	"github.com/a38062an/uk-econ-insight-agent/internal/retrieve"
	"github.com/a38062an/uk-econ-insight-agent/pkg/embedding"
	"github.com/a38062an/uk-econ-insight-agent/pkg/llm"
)

// Generates one market report from the freshest chunks and stores it back
// into the corpus, where it becomes the cutoff for later trend queries.
// Meant to run on a schedule alongside cmd/ingester.
func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	ctx := context.Background()

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	chunkRepo := repository.NewChunkRepository(db.DB)
	embedder := embedding.NewOpenAIClient(cfg.OpenAIKey)

	var generator llm.Generator
	if cfg.AnthropicKey != "" {
		generator = llm.NewAnthropicClient(cfg.AnthropicKey)
	} else {
		generator = llm.NewOpenAIClient(cfg.OpenAIKey)
	}

	retriever := retrieve.New(chunkRepo, embedder, retrieve.Options{
		SummaryFetchK: cfg.SummaryFetchK,
		SummaryKeepN:  cfg.SummaryKeepN,
		TrendK:        cfg.TrendK,
		FactK:         cfg.FactK,
		FactMaxDist:   cfg.FactMaxDist,
	})

	chunks, err := retriever.ForSummary(ctx)
	if err != nil {
		log.Fatalf("error retrieving chunks for report: %v", err)
	}

	if len(chunks) == 0 {
		slog.Info("no recent chunks to report on, exiting")
		return
	}

	slog.Info("generating report", "chunk_count", len(chunks))

	report, err := generator.Generate(ctx, llm.GenerateRequest{
		Route:  model.RouteSummary,
		Chunks: chunks,
	})
	if err != nil {
		log.Fatalf("error generating report: %v", err)
	}

	vector, err := embedder.Embed(ctx, report)
	if err != nil {
		log.Fatalf("error embedding report: %v", err)
	}

	now := time.Now()
	chunk := &model.DocumentChunk{
		Content:      report,
		Title:        "Market Report " + now.Format("2006-01-02"),
		Source:       model.SourceAgent,
		DocumentType: model.DocTypeReport,
		PublishedAt:  now,
	}

	saved, err := chunkRepo.SaveChunk(ctx, chunk, vector)
	if err != nil {
		log.Fatalf("error saving report: %v", err)
	}
	if !saved {
		slog.Info("identical report already stored, skipping")
		return
	}

	slog.Info("report saved successfully", "report_id", chunk.ID, "chunk_count", len(chunks))
}
