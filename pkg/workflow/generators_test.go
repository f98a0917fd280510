package workflow

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestFormatContext(t *testing.T) {
	tests := []struct {
		name     string
		docs     []RetrievedDocument
		expected string
	}{
		{
			name:     "no documents",
			docs:     nil,
			expected: "No additional context available.",
		},
		{
			name:     "empty slice",
			docs:     []RetrievedDocument{},
			expected: "No additional context available.",
		},
		{
			name:     "numbered snippets",
			docs:     []RetrievedDocument{{Content: "first"}, {Content: "second"}},
			expected: "1. first\n2. second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatContext(tt.docs); got != tt.expected {
				t.Errorf("formatContext() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestBrandGuidance(t *testing.T) {
	tests := []struct {
		name         string
		voice        BrandVoice
		projectTitle string
		expected     string
	}{
		{
			name: "full profile",
			voice: BrandVoice{
				Brand:      "Acme",
				Tone:       "direct",
				Audience:   "engineers",
				Guidelines: "no emojis",
			},
			expected: "Brand: Acme. Tone: direct. Audience: engineers. Guidelines: no emojis",
		},
		{
			name:     "partial profile",
			voice:    BrandVoice{Tone: "playful"},
			expected: "Tone: playful",
		},
		{
			name:         "empty profile uses project title",
			projectTitle: "Acme Launch",
			expected:     "Brand: Acme Launch",
		},
		{
			name:     "nothing available",
			expected: "Brand",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := brandGuidance(tt.voice, tt.projectTitle); got != tt.expected {
				t.Errorf("brandGuidance() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestContentMessages(t *testing.T) {
	t.Run("no history", func(t *testing.T) {
		messages := contentMessages("", "do the thing")
		if len(messages) != 1 {
			t.Fatalf("expected 1 message, got %d", len(messages))
		}
	})

	t.Run("history leads the conversation", func(t *testing.T) {
		messages := contentMessages("user: hi\nassistant: hello", "do the thing")
		if len(messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(messages))
		}
	})
}

func TestGenerateBlogParsesStructuredOutput(t *testing.T) {
	model := &mockModel{responses: []string{`{"blog_markdown": "# Post", "meta_title": "Post", "meta_description": "A post."}`}}
	e := NewEngine(Config{LLM: model, Logger: testLogger(t)})

	artifact, err := e.generateBlog(context.Background(), &ContentState{Topic: "caching", Prompt: "write it"})
	if err != nil {
		t.Fatalf("generateBlog() error = %v", err)
	}
	expected := map[string]interface{}{
		"blog_markdown":    "# Post",
		"meta_title":       "Post",
		"meta_description": "A post.",
	}
	if !reflect.DeepEqual(artifact, expected) {
		t.Errorf("artifact = %v, expected %v", artifact, expected)
	}
}

func TestGenerateBlogFallback(t *testing.T) {
	raw := "Here is your blog post without any JSON."
	model := &mockModel{responses: []string{raw}}
	e := NewEngine(Config{LLM: model, Logger: testLogger(t)})

	longTopic := strings.Repeat("t", 100)
	longPrompt := strings.Repeat("p", 200)
	artifact, err := e.generateBlog(context.Background(), &ContentState{Topic: longTopic, Prompt: longPrompt})
	if err != nil {
		t.Fatalf("generateBlog() error = %v", err)
	}
	if artifact["blog_markdown"] != raw {
		t.Errorf("blog_markdown = %v, expected the raw response", artifact["blog_markdown"])
	}
	if artifact["meta_title"] != strings.Repeat("t", 60) {
		t.Errorf("meta_title = %v, expected a 60-rune truncation", artifact["meta_title"])
	}
	if artifact["meta_description"] != strings.Repeat("p", 150) {
		t.Errorf("meta_description = %v, expected a 150-rune truncation", artifact["meta_description"])
	}
}

func TestGenerateLinkedInFallback(t *testing.T) {
	raw := "A plain text post."
	model := &mockModel{responses: []string{raw}}
	e := NewEngine(Config{LLM: model, Logger: testLogger(t)})

	artifact, err := e.generateLinkedIn(context.Background(), &ContentState{Topic: "caching", Prompt: "write it"})
	if err != nil {
		t.Fatalf("generateLinkedIn() error = %v", err)
	}
	expected := map[string]interface{}{"post": raw, "carousel": ""}
	if !reflect.DeepEqual(artifact, expected) {
		t.Errorf("artifact = %v, expected %v", artifact, expected)
	}
}

func TestGeneratorNodesRecoverFromErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "model error", cfg: Config{LLM: &mockModel{err: errors.New("rate limited")}}},
		{name: "no model", cfg: Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logger = testLogger(t)
			e := NewEngine(tt.cfg)

			state, err := e.blogNode(context.Background(), &ContentState{Topic: "caching"})
			if err != nil {
				t.Fatalf("blogNode() error = %v", err)
			}
			if state.Blog == nil || len(state.Blog) != 0 {
				t.Errorf("Blog = %v, expected an empty non-nil artifact", state.Blog)
			}

			state, err = e.linkedinNode(context.Background(), state)
			if err != nil {
				t.Fatalf("linkedinNode() error = %v", err)
			}
			if state.LinkedIn == nil || len(state.LinkedIn) != 0 {
				t.Errorf("LinkedIn = %v, expected an empty non-nil artifact", state.LinkedIn)
			}
		})
	}
}
