package database

import (
	"context"
	"fmt"
)

func (db *PostgresDB) InitSchema(ctx context.Context) error {
	// 1. Projects Table
	projectsQuery := `
		CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL DEFAULT 'Untitled',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, projectsQuery); err != nil {
		return fmt.Errorf("failed to create projects table: %w", err)
	}

	// 2. Chats Table
	chatsQuery := `
		CREATE TABLE IF NOT EXISTS chats (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			title TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT 'No research yet',
			title_generated BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, chatsQuery); err != nil {
		return fmt.Errorf("failed to create chats table: %w", err)
	}

	// 3. Messages Table
	msgQuery := `
		CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			chat_id UUID NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, msgQuery); err != nil {
		return fmt.Errorf("failed to create messages table: %w", err)
	}

	// 4. Research Outputs Table (one per chat)
	researchQuery := `
		CREATE TABLE IF NOT EXISTS research_outputs (
			chat_id UUID PRIMARY KEY REFERENCES chats(id) ON DELETE CASCADE,
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			markdown TEXT NOT NULL DEFAULT '',
			structured JSONB NOT NULL DEFAULT '{}',
			summary TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, researchQuery); err != nil {
		return fmt.Errorf("failed to create research_outputs table: %w", err)
	}

	// 5. Brand Voice Table (singleton row keyed by 'default')
	voiceQuery := `
		CREATE TABLE IF NOT EXISTS brand_voice (
			id TEXT PRIMARY KEY DEFAULT 'default',
			brand TEXT NOT NULL DEFAULT '',
			tone TEXT NOT NULL DEFAULT '',
			audience TEXT NOT NULL DEFAULT '',
			guidelines TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, voiceQuery); err != nil {
		return fmt.Errorf("failed to create brand_voice table: %w", err)
	}

	// Indexes for list queries
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_chats_project_id ON chats(project_id)"); err != nil {
		return fmt.Errorf("failed to create index on chats: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_chats_created_at ON chats(created_at DESC)"); err != nil {
		return fmt.Errorf("failed to create index on chats: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_messages_chat_id ON messages(chat_id)"); err != nil {
		return fmt.Errorf("failed to create index on messages: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_research_outputs_project_id ON research_outputs(project_id)"); err != nil {
		return fmt.Errorf("failed to create index on research_outputs: %w", err)
	}

	return nil
}
