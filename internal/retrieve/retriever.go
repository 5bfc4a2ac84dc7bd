// Package retrieve implements the three time-aware retrieval strategies.
// Reports are chronological digests, trends are deltas bounded by the last
// digest, and facts are plain nearest-neighbour lookups; each shape applies
// a different temporal filter over the same vector store.
package retrieve

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
	"github.com/a38062an/uk-econ-insight-agent/internal/repository"
	"github.com/a38062an/uk-econ-insight-agent/pkg/embedding"
)

// The summary strategy always searches this fixed phrase rather than the
// user's wording: a briefing covers the corpus, not the question.
const summaryTopic = "UK Economy market updates"

// Fallback trend search term when the query is too short to name a topic.
const defaultTrendTerm = "economy inflation"

// Queries longer than this are treated as naming a specific topic and used
// as the trend search term directly.
const minTopicQueryLen = 10

// ChunkStore is the slice of the repository the retriever needs.
type ChunkStore interface {
	SearchSimilar(ctx context.Context, embedding []float32, k int, opts repository.SearchOptions) ([]model.ScoredChunk, error)
	LatestReport(ctx context.Context) (*model.DocumentChunk, error)
}

// Options carries the injected k-values and relevance bar.
type Options struct {
	SummaryFetchK int
	SummaryKeepN  int
	TrendK        int
	FactK         int
	FactMaxDist   float64
}

// TrendContext is the input to trend generation: the prior state of the
// topic and everything published strictly after the cutoff. Recent may be
// empty; that is a finding ("no new developments"), not an error.
type TrendContext struct {
	Cutoff   time.Time
	Baseline string
	Recent   []model.ScoredChunk
}

type Retriever struct {
	store    ChunkStore
	embedder embedding.Embedder
	opts     Options
}

func New(store ChunkStore, embedder embedding.Embedder, opts Options) *Retriever {
	return &Retriever{store: store, embedder: embedder, opts: opts}
}

// ForSummary over-fetches a broad similarity search, then reorders by
// recency: fetch k wide, stable-sort newest first (ties keep similarity
// order), keep the top n. The over-fetch gives the recency sort headroom
// that a plain top-n similarity search would not have.
func (r *Retriever) ForSummary(ctx context.Context) ([]model.ScoredChunk, error) {
	vector, err := r.embedder.Embed(ctx, summaryTopic)
	if err != nil {
		return nil, fmt.Errorf("embed summary topic: %w", err)
	}

	chunks, err := r.store.SearchSimilar(ctx, vector, r.opts.SummaryFetchK, repository.SearchOptions{
		DocumentType: model.DocTypeNews,
	})
	if err != nil {
		return nil, fmt.Errorf("summary search: %w", err)
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].PublishedAt.After(chunks[j].PublishedAt)
	})

	if len(chunks) > r.opts.SummaryKeepN {
		chunks = chunks[:r.opts.SummaryKeepN]
	}
	return chunks, nil
}

// ForTrend bounds the delta by the last report: its timestamp is the cutoff
// and only chunks published strictly after it count as new. With no prior
// report the cutoff is zero and all matching news qualifies.
func (r *Retriever) ForTrend(ctx context.Context, query string) (TrendContext, error) {
	var trend TrendContext

	report, err := r.store.LatestReport(ctx)
	if err != nil {
		return trend, fmt.Errorf("latest report: %w", err)
	}
	if report != nil {
		trend.Cutoff = report.PublishedAt
		trend.Baseline = report.Content
	}

	term, topicNamed := trendSearchTerm(query)
	vector, err := r.embedder.Embed(ctx, term)
	if err != nil {
		return trend, fmt.Errorf("embed trend term: %w", err)
	}

	trend.Recent, err = r.store.SearchSimilar(ctx, vector, r.opts.TrendK, repository.SearchOptions{
		DocumentType:   model.DocTypeNews,
		PublishedAfter: trend.Cutoff,
	})
	if err != nil {
		return trend, fmt.Errorf("trend search: %w", err)
	}

	// With a named topic the report alone may not cover it: pull the
	// pre-cutoff coverage of the same topic so the generator can compare
	// old and new state explicitly.
	if topicNamed && !trend.Cutoff.IsZero() {
		old, err := r.store.SearchSimilar(ctx, vector, r.opts.TrendK, repository.SearchOptions{
			DocumentType:        model.DocTypeNews,
			PublishedAtOrBefore: trend.Cutoff,
		})
		if err != nil {
			return trend, fmt.Errorf("trend baseline search: %w", err)
		}
		if len(old) > 0 {
			var sb strings.Builder
			sb.WriteString(trend.Baseline)
			sb.WriteString("\n\nEarlier coverage of the topic:\n")
			for _, c := range old {
				sb.WriteString(c.Content)
				sb.WriteString("\n")
			}
			trend.Baseline = sb.String()
		}
	}

	return trend, nil
}

// ForFacts is a plain nearest-neighbour lookup over non-report chunks: no
// time filter, no recency sort, and a relevance bar so an off-topic corpus
// returns nothing rather than noise.
func (r *Retriever) ForFacts(ctx context.Context, query string) ([]model.ScoredChunk, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := r.store.SearchSimilar(ctx, vector, r.opts.FactK, repository.SearchOptions{
		DocumentType: model.DocTypeNews,
		MaxDistance:  r.opts.FactMaxDist,
	})
	if err != nil {
		return nil, fmt.Errorf("fact search: %w", err)
	}
	return chunks, nil
}

func trendSearchTerm(query string) (term string, topicNamed bool) {
	query = strings.TrimSpace(query)
	if len(query) > minTopicQueryLen {
		return query, true
	}
	return defaultTrendTerm, false
}
