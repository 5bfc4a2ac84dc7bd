package feeds

import (
	"context"
	"time"
)

// Article is one raw fetched article before tagging and chunking.
type Article struct {
	Title       string
	Body        string
	URL         string
	Source      string
	PublishedAt time.Time
}

// Client fetches articles from one news source. Implementations take a
// single attempt per cycle; retry policy belongs to the caller's schedule.
type Client interface {
	Fetch(ctx context.Context, limit int) ([]Article, error)
	Name() string
}
