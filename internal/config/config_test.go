package config

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestGetEnvFeeds_Default(t *testing.T) {
	t.Setenv("FEED_URLS", "")

	feeds := getEnvFeeds("FEED_URLS")
	assert.Equal(t, 3, len(feeds))
	assert.Equal(t, "bbc", feeds[0].Name)
	assert.Equal(t, "guardian", feeds[1].Name)
	assert.Equal(t, "sky", feeds[2].Name)
}

func TestGetEnvFeeds_Custom(t *testing.T) {
	t.Setenv("FEED_URLS", "bbc=https://example.com/a.xml, sky=https://example.com/b.xml")

	feeds := getEnvFeeds("FEED_URLS")
	assert.Equal(t, 2, len(feeds))
	assert.Equal(t, "bbc", feeds[0].Name)
	assert.Equal(t, "https://example.com/a.xml", feeds[0].URL)
	assert.Equal(t, "sky", feeds[1].Name)
}

func TestGetEnvFeeds_MalformedFallsBack(t *testing.T) {
	t.Setenv("FEED_URLS", "not-a-pair")

	feeds := getEnvFeeds("FEED_URLS")
	assert.Equal(t, 3, len(feeds))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SUMMARY_FETCH_K", "40")
	assert.Equal(t, 40, getEnvInt("SUMMARY_FETCH_K", 20))

	t.Setenv("SUMMARY_FETCH_K", "not-a-number")
	assert.Equal(t, 20, getEnvInt("SUMMARY_FETCH_K", 20))

	t.Setenv("SUMMARY_FETCH_K", "")
	assert.Equal(t, 20, getEnvInt("SUMMARY_FETCH_K", 20))
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("CHUNK_SIMILARITY_THRESHOLD", "0.5")
	assert.Equal(t, 0.5, getEnvFloat("CHUNK_SIMILARITY_THRESHOLD", 0.72))

	t.Setenv("CHUNK_SIMILARITY_THRESHOLD", "")
	assert.Equal(t, 0.72, getEnvFloat("CHUNK_SIMILARITY_THRESHOLD", 0.72))
}
