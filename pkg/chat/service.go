package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contentblitz/content-blitz/pkg/database"
	"github.com/contentblitz/content-blitz/pkg/research"
	"github.com/contentblitz/content-blitz/pkg/vectorstore"
	"github.com/contentblitz/content-blitz/pkg/workflow"
)

const (
	defaultSummary = "No research yet"

	// rejectionMessage is persisted as the assistant turn when the relevance
	// guard rejects a prompt.
	rejectionMessage = "This prompt introduces a new core subject, so it stays out of this chat's research thread. " +
		"Start a new chat in this project to research it."
)

type Chat struct {
	ID             uuid.UUID `json:"id"`
	ProjectID      uuid.UUID `json:"project_id"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	TitleGenerated bool      `json:"title_generated"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Message struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	ChatID    uuid.UUID `json:"chat_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Structured is the JSON payload stored alongside the research markdown.
type Structured struct {
	Keywords   []string             `json:"keywords"`
	Insights   []string             `json:"insights"`
	References []research.Reference `json:"references"`
}

// ResearchOutput is the single research record a chat accumulates. Every chat
// has exactly one, revised in place on each allowed turn.
type ResearchOutput struct {
	ChatID     uuid.UUID  `json:"chat_id"`
	ProjectID  uuid.UUID  `json:"project_id"`
	Markdown   string     `json:"markdown"`
	Structured Structured `json:"structured"`
	Summary    string     `json:"summary"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TurnResult is the outcome of one chat turn.
type TurnResult struct {
	Allowed  bool            `json:"allowed"`
	Reason   string          `json:"reason,omitempty"`
	Message  *Message        `json:"message"`
	Research *ResearchOutput `json:"research,omitempty"`
}

type Service struct {
	DB            *database.PostgresDB
	engine        *workflow.Engine
	vectors       *vectorstore.Service
	historyWindow int
	logger        *slog.Logger
}

func NewService(db *database.PostgresDB, engine *workflow.Engine, vectors *vectorstore.Service, historyWindow int, logger *slog.Logger) *Service {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		DB:            db,
		engine:        engine,
		vectors:       vectors,
		historyWindow: historyWindow,
		logger:        logger,
	}
}

func (s *Service) CreateChat(ctx context.Context, projectID uuid.UUID) (*Chat, error) {
	id := uuid.New()
	query := `INSERT INTO chats (id, project_id) VALUES ($1, $2)
		RETURNING id, project_id, title, summary, title_generated, created_at, updated_at`

	c := &Chat{}
	err := s.DB.Pool.QueryRow(ctx, query, id, projectID).
		Scan(&c.ID, &c.ProjectID, &c.Title, &c.Summary, &c.TitleGenerated, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	_, err = s.DB.Pool.Exec(ctx,
		`INSERT INTO research_outputs (chat_id, project_id) VALUES ($1, $2)`,
		c.ID, c.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to init research output: %w", err)
	}
	return c, nil
}

func (s *Service) ListChats(ctx context.Context, projectID uuid.UUID) ([]Chat, error) {
	query := `SELECT id, project_id, title, summary, title_generated, created_at, updated_at
		FROM chats WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := s.DB.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var c Chat
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Title, &c.Summary, &c.TitleGenerated, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func (s *Service) GetChat(ctx context.Context, chatID uuid.UUID) (*Chat, error) {
	query := `SELECT id, project_id, title, summary, title_generated, created_at, updated_at
		FROM chats WHERE id = $1`

	c := &Chat{}
	err := s.DB.Pool.QueryRow(ctx, query, chatID).
		Scan(&c.ID, &c.ProjectID, &c.Title, &c.Summary, &c.TitleGenerated, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteChat removes the chat and its vector-store chunks. Rows in messages
// and research_outputs cascade with the chat.
func (s *Service) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	chat, err := s.GetChat(ctx, chatID)
	if err != nil {
		return err
	}

	if _, err := s.DB.Pool.Exec(ctx, `DELETE FROM chats WHERE id = $1`, chatID); err != nil {
		return err
	}

	if s.vectors != nil {
		if err := s.vectors.DeleteChatDocuments(ctx, chat.ProjectID.String(), chatID.String()); err != nil {
			s.logger.Warn("Failed to delete chat vectors", "chat_id", chatID, "error", err)
		}
	}
	return nil
}

func (s *Service) UpdateChatTitle(ctx context.Context, chatID uuid.UUID, title string, generated bool) error {
	if title = strings.TrimSpace(title); title == "" {
		title = "Untitled chat"
	}
	_, err := s.DB.Pool.Exec(ctx,
		`UPDATE chats SET title = $2, title_generated = $3, updated_at = NOW() WHERE id = $1`,
		chatID, title, generated)
	return err
}

func (s *Service) AddMessage(ctx context.Context, projectID, chatID uuid.UUID, role, content string) (*Message, error) {
	query := `INSERT INTO messages (id, project_id, chat_id, role, content) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, project_id, chat_id, role, content, created_at`

	m := &Message{}
	err := s.DB.Pool.QueryRow(ctx, query, uuid.New(), projectID, chatID, role, content).
		Scan(&m.ID, &m.ProjectID, &m.ChatID, &m.Role, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) GetHistory(ctx context.Context, chatID uuid.UUID) ([]Message, error) {
	query := `SELECT id, project_id, chat_id, role, content, created_at
		FROM messages WHERE chat_id = $1 ORDER BY created_at ASC`

	rows, err := s.DB.Pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.ChatID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// GetResearchOutput loads a chat's research record. A chat without one yields
// the empty record.
func (s *Service) GetResearchOutput(ctx context.Context, chatID uuid.UUID) (*ResearchOutput, error) {
	query := `SELECT chat_id, project_id, markdown, structured, summary, updated_at
		FROM research_outputs WHERE chat_id = $1`

	out := &ResearchOutput{}
	var structured []byte
	rows, err := s.DB.Pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return &ResearchOutput{ChatID: chatID}, rows.Err()
	}
	if err := rows.Scan(&out.ChatID, &out.ProjectID, &out.Markdown, &structured, &out.Summary, &out.UpdatedAt); err != nil {
		return nil, err
	}
	if len(structured) > 0 {
		if err := json.Unmarshal(structured, &out.Structured); err != nil {
			s.logger.Warn("Failed to decode structured research payload", "chat_id", chatID, "error", err)
		}
	}
	return out, nil
}

func (s *Service) SaveResearchOutput(ctx context.Context, out *ResearchOutput) error {
	structured, err := json.Marshal(out.Structured)
	if err != nil {
		return fmt.Errorf("failed to encode structured research payload: %w", err)
	}

	query := `
		INSERT INTO research_outputs (chat_id, project_id, markdown, structured, summary)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chat_id) DO UPDATE SET
			markdown = EXCLUDED.markdown,
			structured = EXCLUDED.structured,
			summary = EXCLUDED.summary,
			updated_at = NOW()`
	_, err = s.DB.Pool.Exec(ctx, query, out.ChatID, out.ProjectID, out.Markdown, structured, out.Summary)
	return err
}

// buildHistoryWindow serializes the most recent messages for prompt use,
// oldest first.
func buildHistoryWindow(messages []Message, window int) string {
	if window > 0 && len(messages) > window {
		messages = messages[len(messages)-window:]
	}
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// summarySnippet reduces research markdown to a short chat summary: the first
// non-empty line, capped at 120 runes.
func summarySnippet(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > 120 {
			return string(runes[:120])
		}
		return line
	}
	return defaultSummary
}

// SendMessage runs one guarded research turn: persist the user message, gate
// it on relevance, and on an allowed turn revise the chat's research output
// and its vector-store chunks.
func (s *Service) SendMessage(ctx context.Context, projectID, chatID uuid.UUID, content string) (*TurnResult, error) {
	if _, err := s.AddMessage(ctx, projectID, chatID, "user", content); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	messages, err := s.GetHistory(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	// The current prompt goes to the workflow separately.
	if len(messages) > 0 {
		messages = messages[:len(messages)-1]
	}
	history := buildHistoryWindow(messages, s.historyWindow)

	current, err := s.GetResearchOutput(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch research output: %w", err)
	}

	state, err := s.engine.RunResearchWorkflow(ctx, content, history, current.Markdown, current.Markdown)
	if err != nil {
		return nil, fmt.Errorf("research workflow failed: %w", err)
	}

	if !state.Allowed {
		msg, err := s.AddMessage(ctx, projectID, chatID, "assistant", rejectionMessage)
		if err != nil {
			return nil, fmt.Errorf("failed to save rejection message: %w", err)
		}
		s.logger.Info("Prompt rejected by relevance guard", "chat_id", chatID)
		return &TurnResult{Allowed: false, Reason: state.Reason, Message: msg}, nil
	}

	analysis := state.Result.Analysis
	msg, err := s.AddMessage(ctx, projectID, chatID, "assistant", analysis.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	out := &ResearchOutput{
		ChatID:    chatID,
		ProjectID: projectID,
		Markdown:  analysis.Summary,
		Structured: Structured{
			Keywords:   analysis.Keywords,
			Insights:   analysis.Insights,
			References: analysis.References,
		},
		Summary: summarySnippet(analysis.Summary),
	}
	if err := s.SaveResearchOutput(ctx, out); err != nil {
		return nil, fmt.Errorf("failed to save research output: %w", err)
	}

	if _, err := s.DB.Pool.Exec(ctx,
		`UPDATE chats SET summary = $2, updated_at = NOW() WHERE id = $1`,
		chatID, out.Summary); err != nil {
		s.logger.Warn("Failed to update chat summary", "chat_id", chatID, "error", err)
	}

	if s.vectors != nil {
		if err := s.vectors.UpsertResearchOutput(ctx, projectID.String(), chatID.String(),
			analysis.Summary, analysis.Keywords, analysis.Insights); err != nil {
			s.logger.Warn("Failed to index research output", "chat_id", chatID, "error", err)
		}
	}

	chat, err := s.GetChat(ctx, chatID)
	if err == nil && !chat.TitleGenerated {
		go s.generateTitle(chatID, analysis.Summary)
	}

	return &TurnResult{Allowed: true, Message: msg, Research: out}, nil
}

// generateTitle derives and stores a chat title once, off the request path.
func (s *Service) generateTitle(chatID uuid.UUID, summary string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	title, err := s.engine.RunTitleWorkflow(ctx, summary)
	if err != nil {
		s.logger.Error("Title generation failed", "chat_id", chatID, "error", err)
		return
	}
	if strings.TrimSpace(title) == "" {
		return
	}
	if err := s.UpdateChatTitle(ctx, chatID, title, true); err != nil {
		s.logger.Error("Failed to update chat title", "chat_id", chatID, "error", err)
	}
}
