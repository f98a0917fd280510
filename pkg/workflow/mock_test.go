package workflow

import (
	"context"
	"log/slog"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/contentblitz/content-blitz/pkg/vectorstore"
)

// mockModel replays scripted responses in call order. The last response is
// repeated once the script runs out.
type mockModel struct {
	responses []string
	err       error
	calls     int
}

func (m *mockModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var content string
	if len(m.responses) > 0 {
		idx := m.calls - 1
		if idx >= len(m.responses) {
			idx = len(m.responses) - 1
		}
		content = m.responses[idx]
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}, nil
}

func (m *mockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

type mockOutputs struct {
	records []ResearchRecord
	err     error
	calls   int
}

func (m *mockOutputs) ListResearchOutputs(_ context.Context, _ string) ([]ResearchRecord, error) {
	m.calls++
	return m.records, m.err
}

type mockRetriever struct {
	docs      []vectorstore.Document
	err       error
	calls     int
	lastQuery string
	lastK     int
}

func (m *mockRetriever) QueryProjectDocuments(_ context.Context, _ , query string, k int) ([]vectorstore.Document, error) {
	m.calls++
	m.lastQuery = query
	m.lastK = k
	return m.docs, m.err
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.DiscardHandler)
}
