package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Document represents a stored text chunk with its embedding
type Document struct {
	ID        string                 `json:"id"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata"`
	Embedding []float32              `json:"embedding,omitempty"`
}

// PGVectorStore handles pgvector operations. Documents are partitioned into
// namespaces (one namespace per project).
type PGVectorStore struct {
	pool      *pgxpool.Pool
	tableName string
}

// isValidTableName validates that a table name contains only safe characters
// to prevent SQL injection attacks
func isValidTableName(name string) bool {
	// Table names must start with a letter or underscore and be between 1-63 chars (PostgreSQL limit)
	matched, _ := regexp.MatchString(`^[a-z_][a-zA-Z0-9_]{0,62}$`, name)
	return matched
}

// NewPGVectorStore creates a new PGVector store
func NewPGVectorStore(pool *pgxpool.Pool, tableName string) (*PGVectorStore, error) {
	if !isValidTableName(tableName) {
		return nil, fmt.Errorf("invalid table name: must contain only alphanumeric characters and underscores, start with a letter or underscore, and be 1-63 characters long")
	}
	return &PGVectorStore{
		pool:      pool,
		tableName: tableName,
	}, nil
}

// Upsert replaces all documents sharing the given id prefix within a namespace
// and inserts the new chunks. Re-running an upsert for the same source id is
// idempotent.
func (vs *PGVectorStore) Upsert(ctx context.Context, namespace, idPrefix string, docs []Document) error {
	deleteQuery := fmt.Sprintf(`
		DELETE FROM %s WHERE namespace = $1 AND id LIKE $2
	`, pgx.Identifier{vs.tableName}.Sanitize())

	if _, err := vs.pool.Exec(ctx, deleteQuery, namespace, idPrefix+"%"); err != nil {
		return fmt.Errorf("failed to delete existing documents: %w", err)
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (id, namespace, content, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5)
	`, pgx.Identifier{vs.tableName}.Sanitize())

	batch := &pgx.Batch{}
	for _, doc := range docs {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		embedding := pgvector.NewVector(doc.Embedding)
		batch.Queue(insertQuery, doc.ID, namespace, doc.Content, metadataJSON, embedding)
	}

	br := vs.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range docs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}

	return nil
}

// SimilaritySearchResult represents a search result with score
type SimilaritySearchResult struct {
	Document Document
	Score    float64
}

// SimilaritySearch performs a similarity search within a namespace
func (vs *PGVectorStore) SimilaritySearch(ctx context.Context, namespace string, queryEmbedding []float32, topK int) ([]SimilaritySearchResult, error) {
	query := fmt.Sprintf(`
		SELECT id, content, metadata, 1 - (embedding <=> $1) as similarity
		FROM %s
		WHERE namespace = $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`, pgx.Identifier{vs.tableName}.Sanitize())

	embedding := pgvector.NewVector(queryEmbedding)
	rows, err := vs.pool.Query(ctx, query, embedding, namespace, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to execute similarity search: %w", err)
	}
	defer rows.Close()

	var results []SimilaritySearchResult
	for rows.Next() {
		var doc Document
		var metadataJSON []byte
		var similarity float64

		if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}

		results = append(results, SimilaritySearchResult{
			Document: doc,
			Score:    similarity,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// DeleteByMetadata removes all documents in a namespace whose metadata
// contains the given key/value pairs (JSONB containment).
func (vs *PGVectorStore) DeleteByMetadata(ctx context.Context, namespace string, filter map[string]interface{}) error {
	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata filter: %w", err)
	}

	query := fmt.Sprintf(`
		DELETE FROM %s WHERE namespace = $1 AND metadata @> $2
	`, pgx.Identifier{vs.tableName}.Sanitize())

	if _, err := vs.pool.Exec(ctx, query, namespace, filterJSON); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}
