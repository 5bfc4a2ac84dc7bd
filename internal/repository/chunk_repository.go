package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
)

// SearchOptions narrows a similarity search. Zero values mean "no filter".
type SearchOptions struct {
	DocumentType string

	// PublishedAfter keeps only chunks with published_at strictly greater
	// than the cutoff. Used by trend retrieval.
	PublishedAfter time.Time

	// PublishedAtOrBefore keeps only chunks at or before the cutoff. Used
	// for the pre-cutoff baseline in trend retrieval.
	PublishedAtOrBefore time.Time

	// MaxDistance drops results whose cosine distance exceeds the bar.
	MaxDistance float64
}

type ChunkRepository struct {
	db *sql.DB
}

func NewChunkRepository(db *sql.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// SaveChunk stores a chunk with its embedding. Returns false when an
// identical chunk (same content hash) is already stored; re-ingesting the
// same article is a no-op. A zero PublishedAt is rejected outright: every
// stored chunk must carry a timestamp.
func (r *ChunkRepository) SaveChunk(ctx context.Context, chunk *model.DocumentChunk, embedding []float32) (bool, error) {
	if chunk.PublishedAt.IsZero() {
		return false, fmt.Errorf("chunk has no timestamp (source %s)", chunk.Source)
	}
	if len(embedding) == 0 {
		return false, fmt.Errorf("chunk has no embedding (source %s)", chunk.Source)
	}

	if chunk.ContentHash == "" {
		chunk.ContentHash = model.ChunkHash(chunk.Content, chunk.Source)
	}
	if chunk.DocumentType == "" {
		chunk.DocumentType = model.DocTypeNews
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO document_chunk(content, title, url, source, document_type, entities, published_at, content_hash, embedding)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (content_hash) DO NOTHING
		RETURNING id
	`, chunk.Content, chunk.Title, chunk.URL, chunk.Source, chunk.DocumentType,
		pq.Array(chunk.Entities), chunk.PublishedAt, chunk.ContentHash,
		pgvector.NewVector(embedding)).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	chunk.ID = id
	return true, nil
}

// SearchSimilar runs a cosine nearest-neighbour search, optionally filtered
// by document type and timestamp. Results come back in similarity order.
func (r *ChunkRepository) SearchSimilar(ctx context.Context, embedding []float32, k int, opts SearchOptions) ([]model.ScoredChunk, error) {
	query := `
		SELECT id, content, title, url, source, document_type, entities, published_at, content_hash, created_at,
			embedding <=> $1 AS distance
		FROM document_chunk`

	args := []any{pgvector.NewVector(embedding)}
	where := ""
	addCond := func(cond string, value any) {
		args = append(args, value)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}

	if opts.DocumentType != "" {
		addCond("document_type = $%d", opts.DocumentType)
	}
	if !opts.PublishedAfter.IsZero() {
		addCond("published_at > $%d", opts.PublishedAfter)
	}
	if !opts.PublishedAtOrBefore.IsZero() {
		addCond("published_at <= $%d", opts.PublishedAtOrBefore)
	}
	if opts.MaxDistance > 0 {
		addCond("embedding <=> $1 <= $%d", opts.MaxDistance)
	}

	args = append(args, k)
	query += where + fmt.Sprintf(" ORDER BY embedding <=> $1 LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []model.ScoredChunk
	for rows.Next() {
		var c model.ScoredChunk
		err := rows.Scan(&c.ID, &c.Content, &c.Title, &c.URL, &c.Source, &c.DocumentType,
			pq.Array(&c.Entities), &c.PublishedAt, &c.ContentHash, &c.CreatedAt, &c.Distance)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return chunks, nil
}

// LatestReport returns the most recently generated report, or (nil, nil)
// when none has been stored yet.
func (r *ChunkRepository) LatestReport(ctx context.Context) (*model.DocumentChunk, error) {
	var c model.DocumentChunk
	err := r.db.QueryRowContext(ctx, `
		SELECT id, content, title, url, source, document_type, entities, published_at, content_hash, created_at
		FROM document_chunk
		WHERE document_type = $1
		ORDER BY published_at DESC
		LIMIT 1
	`, model.DocTypeReport).Scan(&c.ID, &c.Content, &c.Title, &c.URL, &c.Source, &c.DocumentType,
		pq.Array(&c.Entities), &c.PublishedAt, &c.ContentHash, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *ChunkRepository) ListReports(ctx context.Context, limit, offset int) ([]model.DocumentChunk, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, title, url, source, document_type, entities, published_at, content_hash, created_at
		FROM document_chunk
		WHERE document_type = $1
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3
	`, model.DocTypeReport, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.DocumentChunk
	for rows.Next() {
		var c model.DocumentChunk
		err := rows.Scan(&c.ID, &c.Content, &c.Title, &c.URL, &c.Source, &c.DocumentType,
			pq.Array(&c.Entities), &c.PublishedAt, &c.ContentHash, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		reports = append(reports, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *ChunkRepository) ReportTotal(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM document_chunk WHERE document_type = $1
	`, model.DocTypeReport).Scan(&total)
	return total, err
}

func (r *ChunkRepository) ChunkTotal(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_chunk`).Scan(&total)
	return total, err
}
