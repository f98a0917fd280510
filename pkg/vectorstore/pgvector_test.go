package vectorstore

import (
	"context"
	"testing"
)

func TestIsValidTableName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Valid standard", "research_embeddings", true},
		{"Valid with underscore", "my_collection", true},
		{"Valid with numbers", "collection123", true},
		{"Valid short", "a", true},
		{"Valid max length", "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_", true}, // 63 chars
		{"Invalid start with number", "1collection", false},
		{"Invalid special chars", "collection-name", false},
		{"Invalid space", "collection name", false},
		{"Invalid SQL injection", "users; DROP TABLE embeddings", false},
		{"Invalid empty", "", false},
		{"Invalid too long", "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789__", false}, // 64 chars
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidTableName(tt.input); got != tt.expected {
				t.Errorf("isValidTableName(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuildPayload(t *testing.T) {
	tests := []struct {
		name     string
		summary  string
		keywords []string
		insights []string
		want     string
	}{
		{
			name: "All empty",
			want: "",
		},
		{
			name:    "Summary only",
			summary: "## AI trends",
			want:    "## AI trends",
		},
		{
			name:     "Summary with keywords and insights",
			summary:  "Overview of AI adoption.",
			keywords: []string{"ai", "adoption"},
			insights: []string{"Growth is accelerating", "SMBs lag behind"},
			want:     "Overview of AI adoption.\nKeywords: ai, adoption\nInsights: Growth is accelerating | SMBs lag behind",
		},
		{
			name:     "Keywords only",
			keywords: []string{"seo", "content"},
			want:     "Keywords: seo, content",
		},
		{
			name:     "Blank entries filtered",
			summary:  "Summary",
			keywords: []string{"", "  ", "kw"},
			insights: []string{"  "},
			want:     "Summary\nKeywords: kw",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildPayload(tt.summary, tt.keywords, tt.insights); got != tt.want {
				t.Errorf("buildPayload() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServiceUnavailable(t *testing.T) {
	ctx := context.Background()

	// A service without a store or embedder must skip upserts and return
	// empty retrieval results instead of erroring.
	svc := NewService(nil, nil, 1000, 200)

	if err := svc.UpsertResearchOutput(ctx, "proj", "chat", "summary", nil, nil); err != nil {
		t.Errorf("UpsertResearchOutput() with unavailable store returned error: %v", err)
	}

	docs, err := svc.QueryProjectDocuments(ctx, "proj", "query", 8)
	if err != nil {
		t.Errorf("QueryProjectDocuments() with unavailable store returned error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("QueryProjectDocuments() = %d docs, want 0", len(docs))
	}

	if err := svc.DeleteChatDocuments(ctx, "proj", "chat"); err != nil {
		t.Errorf("DeleteChatDocuments() with unavailable store returned error: %v", err)
	}
}
