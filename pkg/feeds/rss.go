package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
)

const (
	// Per-article cap within the feed's own deadline, so one slow article
	// cannot eat the whole feed budget.
	extractTimeout = 20 * time.Second

	// Extractions shorter than this are treated as failed (paywall stubs,
	// cookie walls) and fall back to the feed's own description.
	minExtractedChars = 200
)

// RSSClient fetches one RSS feed and pulls the full text of each linked
// article.
type RSSClient struct {
	name    string
	feedURL string
	parser  *gofeed.Parser

	// extract is swappable in tests to avoid real article fetches.
	extract func(ctx context.Context, url string) (string, error)
}

func NewRSSClient(name, feedURL string) *RSSClient {
	return &RSSClient{
		name:    name,
		feedURL: feedURL,
		parser:  gofeed.NewParser(),
		extract: extractBody,
	}
}

func (c *RSSClient) Name() string {
	return c.name
}

// Fetch parses the feed listing and extracts the body of up to limit
// articles. A single unextractable article is skipped, not fatal: the rest
// of the feed still comes back.
func (c *RSSClient) Fetch(ctx context.Context, limit int) ([]Article, error) {
	feed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", c.feedURL, err)
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	articles := make([]Article, 0, len(items))
	for _, item := range items {
		if item.Link == "" {
			continue
		}

		extractCtx, cancel := context.WithTimeout(ctx, extractTimeout)
		body, err := c.extract(extractCtx, item.Link)
		cancel()
		if err != nil || len(strings.TrimSpace(body)) < minExtractedChars {
			if err != nil {
				slog.Warn("article extraction failed, using feed description", "source", c.name, "url", item.Link, "error", err)
			}
			body = item.Description
		}

		articles = append(articles, Article{
			Title:       item.Title,
			Body:        strings.TrimSpace(body),
			URL:         item.Link,
			Source:      c.name,
			PublishedAt: publishedTime(item),
		})
	}

	return articles, nil
}

func extractBody(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch article %s: status %d", pageURL, resp.StatusCode)
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// publishedTime never returns a zero time: every stored chunk must carry a
// timestamp, so items without a parseable date get the fetch time.
func publishedTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Now()
}
