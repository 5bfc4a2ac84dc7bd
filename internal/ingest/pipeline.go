// Package ingest runs the corpus refresh cycle: fetch feeds concurrently,
// tag entities, chunk semantically, embed, and store.
package ingest

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
	"github.com/a38062an/uk-econ-insight-agent/pkg/embedding"
	"github.com/a38062an/uk-econ-insight-agent/pkg/feeds"
)

// Articles with less body text than this are skipped: too thin to chunk
// into anything retrievable.
const minArticleChars = 500

// Each feed gets its own deadline; a slow feed times out alone without
// cancelling its siblings.
const feedFetchTimeout = 60 * time.Second

type EntityTagger interface {
	Entities(text string) ([]string, error)
}

type Chunker interface {
	Split(ctx context.Context, text string) ([]string, error)
}

type ChunkStore interface {
	SaveChunk(ctx context.Context, chunk *model.DocumentChunk, embedding []float32) (bool, error)
}

// Stats summarises one ingestion cycle.
type Stats struct {
	FeedsFetched int `json:"feeds_fetched"`
	FeedsFailed  int `json:"feeds_failed"`
	Articles     int `json:"articles"`
	Saved        int `json:"saved"`
	Duplicated   int `json:"duplicated"`
	Errors       int `json:"errors"`
}

type Pipeline struct {
	clients         []feeds.Client
	tagger          EntityTagger
	chunker         Chunker
	embedder        embedding.Embedder
	store           ChunkStore
	articlesPerFeed int

	// Guards TryRun: the manual API trigger and the scheduled ticker share
	// one Pipeline, and only one cycle may run at a time.
	running atomic.Bool
}

func NewPipeline(clients []feeds.Client, tagger EntityTagger, chunker Chunker,
	embedder embedding.Embedder, store ChunkStore, articlesPerFeed int) *Pipeline {
	return &Pipeline{
		clients:         clients,
		tagger:          tagger,
		chunker:         chunker,
		embedder:        embedder,
		store:           store,
		articlesPerFeed: articlesPerFeed,
	}
}

// TryRun starts a cycle unless one is already in flight, in which case it
// reports false without doing any work.
func (p *Pipeline) TryRun(ctx context.Context) (Stats, bool) {
	if !p.running.CompareAndSwap(false, true) {
		return Stats{}, false
	}
	defer p.running.Store(false)

	return p.Run(ctx), true
}

type feedResult struct {
	source   string
	articles []feeds.Article
	err      error
}

// Run executes one ingestion cycle. Feeds are fetched in parallel with
// per-feed isolation: one feed failing or timing out never aborts the
// others, it just contributes an empty result. Processing happens after the
// gather so a cycle's stored chunks are a deterministic merge.
func (p *Pipeline) Run(ctx context.Context) Stats {
	results := make([]feedResult, len(p.clients))

	var wg sync.WaitGroup
	for i, client := range p.clients {
		wg.Add(1)
		go func(i int, client feeds.Client) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, feedFetchTimeout)
			defer cancel()

			articles, err := client.Fetch(fetchCtx, p.articlesPerFeed)
			results[i] = feedResult{source: client.Name(), articles: articles, err: err}
		}(i, client)
	}
	wg.Wait()

	var stats Stats
	for _, result := range results {
		if result.err != nil {
			slog.Error("feed fetch failed, skipping", "source", result.source, "error", result.err)
			stats.FeedsFailed++
			continue
		}
		stats.FeedsFetched++

		saved, duplicated, errors := p.processFeed(ctx, result)
		stats.Articles += len(result.articles)
		stats.Saved += saved
		stats.Duplicated += duplicated
		stats.Errors += errors

		slog.Info("ingest complete", "source", result.source,
			"articles", len(result.articles), "saved", saved, "duplicated", duplicated, "errors", errors)
	}

	return stats
}

func (p *Pipeline) processFeed(ctx context.Context, result feedResult) (saved, duplicated, errors int) {
	for _, article := range result.articles {
		if len(article.Body) < minArticleChars {
			slog.Info("skipping short article", "source", result.source, "url", article.URL)
			continue
		}

		entities, err := p.tagger.Entities(article.Body)
		if err != nil {
			slog.Warn("entity tagging failed, storing without entities", "source", result.source, "url", article.URL, "error", err)
			entities = nil
		}

		spans, err := p.chunker.Split(ctx, article.Body)
		if err != nil {
			slog.Error("chunking failed, skipping article", "source", result.source, "url", article.URL, "error", err)
			errors++
			continue
		}
		if len(spans) == 0 {
			continue
		}

		vectors, err := p.embedder.EmbedBatch(ctx, spans)
		if err != nil {
			slog.Error("embedding failed, skipping article", "source", result.source, "url", article.URL, "error", err)
			errors++
			continue
		}

		for i, span := range spans {
			chunk := &model.DocumentChunk{
				Content:      span,
				Title:        article.Title,
				URL:          article.URL,
				Source:       article.Source,
				DocumentType: model.DocTypeNews,
				Entities:     entities,
				PublishedAt:  article.PublishedAt,
			}

			ok, err := p.store.SaveChunk(ctx, chunk, vectors[i])
			if err != nil {
				slog.Error("error saving chunk", "source", result.source, "url", article.URL, "error", err)
				errors++
				continue
			}
			if !ok {
				duplicated++
				continue
			}
			saved++
		}
	}
	return saved, duplicated, errors
}
