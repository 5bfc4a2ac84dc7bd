// Package config reads the service configuration from the environment.
// Every main calls godotenv.Load() first, so a local .env file works the
// same as real environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Default RSS sources: BBC, Guardian and Sky business feeds.
var defaultFeeds = []FeedSource{
	{Name: "bbc", URL: "https://feeds.bbci.co.uk/news/business/rss.xml"},
	{Name: "guardian", URL: "https://www.theguardian.com/uk/business/rss"},
	{Name: "sky", URL: "https://feeds.skynews.com/feeds/rss/business.xml"},
}

type FeedSource struct {
	Name string
	URL  string
}

type Config struct {
	DatabaseURL     string
	RedisURL        string
	OpenAIKey       string
	AnthropicKey    string
	FrontendURL     string
	Feeds           []FeedSource
	ArticlesPerFeed int

	// Chunking
	SimilarityThreshold float64

	// Retrieval k-values
	SummaryFetchK int
	SummaryKeepN  int
	TrendK        int
	FactK         int
	FactMaxDist   float64

	HistoryPairs      int
	IngestIntervalMin int
}

func Load() Config {
	return Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:    os.Getenv("ANTHROPIC_API_KEY"),
		FrontendURL:     os.Getenv("FRONTEND_URL"),
		Feeds:           getEnvFeeds("FEED_URLS"),
		ArticlesPerFeed: getEnvInt("ARTICLES_PER_FEED", 5),

		SimilarityThreshold: getEnvFloat("CHUNK_SIMILARITY_THRESHOLD", 0.72),

		SummaryFetchK: getEnvInt("SUMMARY_FETCH_K", 20),
		SummaryKeepN:  getEnvInt("SUMMARY_KEEP_N", 10),
		TrendK:        getEnvInt("TREND_K", 5),
		FactK:         getEnvInt("FACT_K", 5),
		FactMaxDist:   getEnvFloat("FACT_MAX_DISTANCE", 0.65),

		HistoryPairs:      getEnvInt("HISTORY_WINDOW_PAIRS", 3),
		IngestIntervalMin: getEnvInt("INGEST_INTERVAL_MINUTES", 0),
	}
}

// getEnvFeeds parses FEED_URLS as comma-separated name=url pairs, e.g.
// "bbc=https://...,sky=https://...". Unset or malformed values fall back to
// the default UK business feeds.
func getEnvFeeds(name string) []FeedSource {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultFeeds
	}

	var feeds []FeedSource
	for _, part := range strings.Split(raw, ",") {
		name, url, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" || url == "" {
			slog.Warn("skipping malformed feed entry", "entry", part)
			continue
		}
		feeds = append(feeds, FeedSource{Name: name, URL: url})
	}

	if len(feeds) == 0 {
		return defaultFeeds
	}
	return feeds
}

func getEnvInt(name string, defaultValue int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid env value, using default", "name", name, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvFloat(name string, defaultValue float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("invalid env value, using default", "name", name, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}
