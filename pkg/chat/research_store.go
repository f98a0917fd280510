package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/contentblitz/content-blitz/pkg/database"
	"github.com/contentblitz/content-blitz/pkg/workflow"
)

// ResearchStore reads research outputs for the content workflow's topic
// generator. Split from Service so the workflow engine can be wired without a
// dependency cycle.
type ResearchStore struct {
	DB     *database.PostgresDB
	logger *slog.Logger
}

func NewResearchStore(db *database.PostgresDB) *ResearchStore {
	return &ResearchStore{DB: db, logger: slog.Default()}
}

// ListResearchOutputs returns the research metadata of every chat in a
// project that has produced research, oldest first.
func (s *ResearchStore) ListResearchOutputs(ctx context.Context, projectID string) ([]workflow.ResearchRecord, error) {
	id, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	query := `SELECT summary, markdown, structured FROM research_outputs
		WHERE project_id = $1 AND markdown <> '' ORDER BY updated_at ASC`

	rows, err := s.DB.Pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []workflow.ResearchRecord
	for rows.Next() {
		var summary, markdown string
		var structuredRaw []byte
		if err := rows.Scan(&summary, &markdown, &structuredRaw); err != nil {
			return nil, err
		}

		var structured Structured
		if len(structuredRaw) > 0 {
			if err := json.Unmarshal(structuredRaw, &structured); err != nil {
				s.logger.Warn("Failed to decode structured research payload", "error", err)
			}
		}
		if summary == "" {
			summary = summarySnippet(markdown)
		}
		records = append(records, workflow.ResearchRecord{
			Summary:  summary,
			Keywords: structured.Keywords,
			Insights: structured.Insights,
		})
	}
	return records, rows.Err()
}
