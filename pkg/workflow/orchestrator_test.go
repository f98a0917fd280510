package workflow

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/contentblitz/content-blitz/pkg/vectorstore"
)

func TestOrchestrateNormalizesTopicAndSections(t *testing.T) {
	tests := []struct {
		name             string
		state            ContentState
		expectedTopic    string
		expectedSections []string
	}{
		{
			name:             "keeps explicit topic",
			state:            ContentState{Topic: "  vector search  ", Sections: []string{" Intro ", "", "Costs"}},
			expectedTopic:    "vector search",
			expectedSections: []string{"Intro", "Costs"},
		},
		{
			name:             "derives topic from prompt",
			state:            ContentState{Prompt: "  write about zero-downtime deploys  "},
			expectedTopic:    "write about zero-downtime deploys",
			expectedSections: []string{},
		},
		{
			name:             "long prompt is truncated",
			state:            ContentState{Prompt: strings.Repeat("a", 200)},
			expectedTopic:    strings.Repeat("a", 80),
			expectedSections: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(Config{Logger: testLogger(t)})

			state := tt.state
			got, err := e.orchestrate(context.Background(), &state)
			if err != nil {
				t.Fatalf("orchestrate() error = %v", err)
			}
			if got.Topic != tt.expectedTopic {
				t.Errorf("Topic = %q, expected %q", got.Topic, tt.expectedTopic)
			}
			if !reflect.DeepEqual(got.Sections, tt.expectedSections) {
				t.Errorf("Sections = %v, expected %v", got.Sections, tt.expectedSections)
			}
		})
	}
}

func TestOrchestrateRetrievesOncePerRun(t *testing.T) {
	retriever := &mockRetriever{docs: []vectorstore.Document{{Content: "snippet"}}}
	e := NewEngine(Config{Retriever: retriever, RetrievalTopK: 5, Logger: testLogger(t)})

	state := &ContentState{
		ProjectID: "p1",
		Prompt:    "write about caching",
		Topic:     "caching strategies",
		Sections:  []string{"Intro", "Eviction"},
	}

	for pass := 0; pass < 3; pass++ {
		var err error
		state, err = e.orchestrate(context.Background(), state)
		if err != nil {
			t.Fatalf("orchestrate() pass %d error = %v", pass, err)
		}
	}

	if retriever.calls != 1 {
		t.Fatalf("expected exactly one retrieval, got %d", retriever.calls)
	}
	if retriever.lastK != 5 {
		t.Errorf("lastK = %d, expected 5", retriever.lastK)
	}
	expectedQuery := "caching strategies Intro Eviction write about caching"
	if retriever.lastQuery != expectedQuery {
		t.Errorf("lastQuery = %q, expected %q", retriever.lastQuery, expectedQuery)
	}
	if len(state.VectorDocuments) != 1 || state.VectorDocuments[0].Content != "snippet" {
		t.Errorf("unexpected retrieved documents: %v", state.VectorDocuments)
	}
}

func TestOrchestrateSkipsRetrievalWithoutProject(t *testing.T) {
	retriever := &mockRetriever{}
	e := NewEngine(Config{Retriever: retriever, Logger: testLogger(t)})

	state, err := e.orchestrate(context.Background(), &ContentState{
		Prompt: "write about caching",
		Topic:  "caching",
	})
	if err != nil {
		t.Fatalf("orchestrate() error = %v", err)
	}
	if retriever.calls != 0 {
		t.Errorf("expected no retrieval without a project, got %d calls", retriever.calls)
	}
	if state.VectorDocuments != nil {
		t.Errorf("expected VectorDocuments to stay nil, got %v", state.VectorDocuments)
	}
}

func TestOrchestrateRetrievalFailureContinues(t *testing.T) {
	retriever := &mockRetriever{err: errors.New("db down")}
	e := NewEngine(Config{Retriever: retriever, Logger: testLogger(t)})

	state, err := e.orchestrate(context.Background(), &ContentState{
		ProjectID: "p1",
		Prompt:    "write about caching",
		Topic:     "caching",
	})
	if err != nil {
		t.Fatalf("orchestrate() error = %v", err)
	}
	if state.VectorDocuments == nil {
		t.Fatal("expected a non-nil document slice after a failed retrieval")
	}
	if len(state.VectorDocuments) != 0 {
		t.Errorf("expected no documents, got %v", state.VectorDocuments)
	}

	// The gate must not fire again even though retrieval failed.
	if _, err := e.orchestrate(context.Background(), state); err != nil {
		t.Fatalf("orchestrate() error = %v", err)
	}
	if retriever.calls != 1 {
		t.Errorf("expected one retrieval attempt, got %d", retriever.calls)
	}
}

func TestRouteContent(t *testing.T) {
	tests := []struct {
		name     string
		state    ContentState
		expected string
	}{
		{
			name:     "no intent routes to classifier",
			state:    ContentState{},
			expected: nodeIntentClassifier,
		},
		{
			name:     "missing topic routes to generator",
			state:    ContentState{Intent: []string{"blog"}},
			expected: nodeTopicGenerator,
		},
		{
			name:     "missing sections route to generator",
			state:    ContentState{Intent: []string{"blog"}, Topic: "caching"},
			expected: nodeTopicGenerator,
		},
		{
			name: "generator runs at most once",
			state: ContentState{
				Intent:                   []string{"blog"},
				Topic:                    "caching",
				TopicGenerationAttempted: true,
			},
			expected: nodeBlogGenerator,
		},
		{
			name: "blog before linkedin",
			state: ContentState{
				Intent:   []string{"LinkedIn", "blog"},
				Topic:    "caching",
				Sections: []string{"Intro"},
			},
			expected: nodeBlogGenerator,
		},
		{
			name: "linkedin after blog",
			state: ContentState{
				Intent:   []string{"LinkedIn", "blog"},
				Topic:    "caching",
				Sections: []string{"Intro"},
				Blog:     map[string]interface{}{},
			},
			expected: nodeLinkedInGenerator,
		},
		{
			name: "all artifacts done",
			state: ContentState{
				Intent:   []string{"LinkedIn", "blog"},
				Topic:    "caching",
				Sections: []string{"Intro"},
				Blog:     map[string]interface{}{},
				LinkedIn: map[string]interface{}{},
			},
			expected: nodeEnd,
		},
		{
			name: "unrequested artifacts are skipped",
			state: ContentState{
				Intent:   []string{"blog"},
				Topic:    "caching",
				Sections: []string{"Intro"},
				Blog:     map[string]interface{}{"blog_markdown": "..."},
			},
			expected: nodeEnd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(Config{Logger: testLogger(t)})

			state := tt.state
			if got := e.routeContent(context.Background(), &state); got != tt.expected {
				t.Errorf("routeContent() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
