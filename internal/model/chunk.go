package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

const (
	DocTypeNews   = "news_chunk"
	DocTypeReport = "report"

	SourceBBC      = "bbc"
	SourceGuardian = "guardian"
	SourceSky      = "sky"
	SourceAgent    = "agent"
)

// DocumentChunk is the atomic unit of retrieval: a bounded span of article
// text with its metadata. Reports are chunks too, distinguished by
// DocumentType, so the same similarity search covers both.
type DocumentChunk struct {
	ID           int64
	Content      string
	Title        string
	URL          string
	Source       string
	DocumentType string
	Entities     []string
	PublishedAt  time.Time
	ContentHash  string
	CreatedAt    time.Time
}

// ScoredChunk pairs a chunk with its cosine distance from a query vector.
// Lower distance means more similar.
type ScoredChunk struct {
	DocumentChunk
	Distance float64
}

// ChunkHash fingerprints a chunk for ingestion dedup. Re-fetching the same
// article across cycles produces the same hash.
func ChunkHash(content, source string) string {
	sum := sha256.Sum256([]byte(source + "\x00" + content))
	return fmt.Sprintf("%x", sum)
}
