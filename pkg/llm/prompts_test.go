package llm

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/go-playground/assert/v2"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
)

func TestBuildRouterUserPrompt_IncludesHistory(t *testing.T) {
	history := []model.Turn{
		{Role: model.RoleUser, Content: "what is the inflation rate?"},
		{Role: model.RoleAssistant, Content: "It is 5%."},
	}

	prompt := buildRouterUserPrompt("is that good?", history)

	assert.Equal(t, true, strings.Contains(prompt, "what is the inflation rate?"))
	assert.Equal(t, true, strings.Contains(prompt, "It is 5%."))
	assert.Equal(t, true, strings.Contains(prompt, "is that good?"))
}

func TestBuildRouterUserPrompt_NoHistory(t *testing.T) {
	prompt := buildRouterUserPrompt("hello", nil)

	assert.Equal(t, false, strings.Contains(prompt, "Conversation history"))
	assert.Equal(t, true, strings.Contains(prompt, "hello"))
}

func TestBuildTrendUserPrompt_WithBaseline(t *testing.T) {
	cutoff := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	req := GenerateRequest{
		Route:    model.RouteTrend,
		Query:    "how has GDP changed?",
		Baseline: "GDP grew 0.2% last quarter.",
		Cutoff:   cutoff,
		Chunks: []model.ScoredChunk{
			{DocumentChunk: model.DocumentChunk{
				Title:       "GDP update",
				Source:      model.SourceBBC,
				Content:     "GDP grew 0.5% this quarter.",
				PublishedAt: cutoff.Add(time.Hour),
			}},
		},
	}

	prompt := buildTrendUserPrompt(req)

	assert.Equal(t, true, strings.Contains(prompt, "GDP grew 0.2% last quarter."))
	assert.Equal(t, true, strings.Contains(prompt, "GDP grew 0.5% this quarter."))
	assert.Equal(t, true, strings.Contains(prompt, "2026-08-20 09:00"))
}

func TestBuildTrendUserPrompt_NoBaseline(t *testing.T) {
	req := GenerateRequest{Route: model.RouteTrend, Query: "inflation"}

	prompt := buildTrendUserPrompt(req)
	assert.Equal(t, true, strings.Contains(prompt, "No earlier report exists"))
}

func TestFormatChunks_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("a", maxChunkChars+100)
	out := formatChunks([]model.ScoredChunk{
		{DocumentChunk: model.DocumentChunk{Title: "Long", Source: model.SourceSky, Content: long, PublishedAt: time.Now()}},
	})

	assert.Equal(t, true, strings.Contains(out, "..."))
	assert.Equal(t, false, strings.Contains(out, long))
}

func TestTruncate_NeverSplitsRune(t *testing.T) {
	// "£" is two bytes; an odd cap lands mid-rune without the backoff.
	s := strings.Repeat("£", 10)

	out := truncate(s, 5)
	assert.Equal(t, true, utf8.ValidString(out))
	assert.Equal(t, "££...", out)

	out = truncate(s, 6)
	assert.Equal(t, true, utf8.ValidString(out))
	assert.Equal(t, "£££...", out)

	assert.Equal(t, "short", truncate("short", 10))
}

func TestSystemPromptFor(t *testing.T) {
	assert.Equal(t, summarySystemPrompt, systemPromptFor(model.RouteSummary))
	assert.Equal(t, trendSystemPrompt, systemPromptFor(model.RouteTrend))
	assert.Equal(t, factSystemPrompt, systemPromptFor(model.RouteFactLookup))
}
