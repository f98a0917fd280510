package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestGuardRelevanceSkipsClassifier(t *testing.T) {
	tests := []struct {
		name           string
		prompt         string
		researchOutput string
	}{
		{name: "blank prompt", prompt: "   ", researchOutput: "# Prior research"},
		{name: "no prior research", prompt: "tell me more", researchOutput: ""},
		{name: "whitespace research", prompt: "tell me more", researchOutput: "\n\t "},
		{name: "both blank", prompt: "", researchOutput: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &mockModel{responses: []string{"reject"}}
			e := NewEngine(Config{FastLLM: model, Logger: testLogger(t)})

			state, err := e.guardRelevance(context.Background(), &ResearchState{
				Prompt:         tt.prompt,
				ResearchOutput: tt.researchOutput,
			})
			if err != nil {
				t.Fatalf("guardRelevance() error = %v", err)
			}
			if !state.Allowed {
				t.Error("expected the turn to be allowed")
			}
			if state.Reason != "" {
				t.Errorf("expected empty reason, got %q", state.Reason)
			}
			if model.calls != 0 {
				t.Errorf("expected no classifier calls, got %d", model.calls)
			}
		})
	}
}

func TestGuardRelevanceDecision(t *testing.T) {
	tests := []struct {
		name     string
		response string
		allowed  bool
	}{
		{name: "allow", response: "allow", allowed: true},
		{name: "reject", response: "reject", allowed: false},
		{name: "padded allow", response: "  Allow.\n", allowed: true},
		{name: "both tokens resolve to reject", response: "allow, but I would reject parts of it", allowed: false},
		{name: "unrecognized output rejects", response: "maybe", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &mockModel{responses: []string{tt.response}}
			e := NewEngine(Config{FastLLM: model, Logger: testLogger(t)})

			state, err := e.guardRelevance(context.Background(), &ResearchState{
				Prompt:         "what about adoption in healthcare?",
				ResearchOutput: "# Research on LLM agents",
			})
			if err != nil {
				t.Fatalf("guardRelevance() error = %v", err)
			}
			if state.Allowed != tt.allowed {
				t.Errorf("Allowed = %v, expected %v", state.Allowed, tt.allowed)
			}
			if model.calls != 1 {
				t.Errorf("expected exactly one classifier call, got %d", model.calls)
			}
		})
	}
}

func TestGuardRelevanceClassifierError(t *testing.T) {
	model := &mockModel{err: errors.New("connection reset")}
	e := NewEngine(Config{FastLLM: model, Logger: testLogger(t)})

	_, err := e.guardRelevance(context.Background(), &ResearchState{
		Prompt:         "follow up",
		ResearchOutput: "# Prior research",
	})
	if err == nil {
		t.Fatal("expected a classification error")
	}
}

func TestGuardRelevanceNoClassifierModel(t *testing.T) {
	e := NewEngine(Config{Logger: testLogger(t)})

	state, err := e.guardRelevance(context.Background(), &ResearchState{
		Prompt:         "follow up",
		ResearchOutput: "# Prior research",
	})
	if err != nil {
		t.Fatalf("guardRelevance() error = %v", err)
	}
	if !state.Allowed {
		t.Error("expected the turn to be allowed when no classifier is configured")
	}
}
