package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contentblitz/content-blitz/pkg/database"
	"github.com/contentblitz/content-blitz/pkg/workflow"
)

type Project struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ChatCount int       `json:"chat_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Service struct {
	DB *database.PostgresDB
}

func NewService(db *database.PostgresDB) *Service {
	return &Service{DB: db}
}

// normalizeTitle trims a project title, falling back to the default name.
func normalizeTitle(title string) string {
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		return trimmed
	}
	return "Untitled"
}

func (s *Service) CreateProject(ctx context.Context, title string) (*Project, error) {
	query := `INSERT INTO projects (id, title) VALUES ($1, $2) RETURNING id, title, created_at, updated_at`

	p := &Project{}
	err := s.DB.Pool.QueryRow(ctx, query, uuid.New(), normalizeTitle(title)).
		Scan(&p.ID, &p.Title, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	query := `
		SELECT p.id, p.title, COUNT(c.id), p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN chats c ON c.project_id = p.id
		GROUP BY p.id
		ORDER BY p.updated_at DESC`

	rows, err := s.DB.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Title, &p.ChatCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `
		SELECT p.id, p.title, COUNT(c.id), p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN chats c ON c.project_id = p.id
		WHERE p.id = $1
		GROUP BY p.id`

	p := &Project{}
	err := s.DB.Pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Title, &p.ChatCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateProjectTitle(ctx context.Context, id uuid.UUID, title string) (*Project, error) {
	query := `UPDATE projects SET title = $2, updated_at = NOW() WHERE id = $1 RETURNING id, title, created_at, updated_at`

	p := &Project{}
	err := s.DB.Pool.QueryRow(ctx, query, id, normalizeTitle(title)).
		Scan(&p.ID, &p.Title, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	_, err := s.DB.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

// GetBrandVoice loads the singleton brand voice profile. A missing row is the
// empty profile.
func (s *Service) GetBrandVoice(ctx context.Context) (workflow.BrandVoice, error) {
	query := `SELECT brand, tone, audience, guidelines FROM brand_voice WHERE id = 'default'`

	var voice workflow.BrandVoice
	rows, err := s.DB.Pool.Query(ctx, query)
	if err != nil {
		return voice, err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&voice.Brand, &voice.Tone, &voice.Audience, &voice.Guidelines); err != nil {
			return workflow.BrandVoice{}, err
		}
	}
	return voice, rows.Err()
}

// SaveBrandVoice upserts the singleton brand voice profile with trimmed
// fields.
func (s *Service) SaveBrandVoice(ctx context.Context, voice workflow.BrandVoice) (workflow.BrandVoice, error) {
	query := `
		INSERT INTO brand_voice (id, brand, tone, audience, guidelines)
		VALUES ('default', $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			brand = EXCLUDED.brand,
			tone = EXCLUDED.tone,
			audience = EXCLUDED.audience,
			guidelines = EXCLUDED.guidelines,
			updated_at = NOW()
		RETURNING brand, tone, audience, guidelines`

	var saved workflow.BrandVoice
	err := s.DB.Pool.QueryRow(ctx, query,
		strings.TrimSpace(voice.Brand),
		strings.TrimSpace(voice.Tone),
		strings.TrimSpace(voice.Audience),
		strings.TrimSpace(voice.Guidelines)).
		Scan(&saved.Brand, &saved.Tone, &saved.Audience, &saved.Guidelines)
	if err != nil {
		return workflow.BrandVoice{}, err
	}
	return saved, nil
}
