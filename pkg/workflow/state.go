package workflow

import (
	"strings"

	"github.com/contentblitz/content-blitz/pkg/research"
)

// BrandVoice is the saved tone-of-voice profile applied to generated content.
type BrandVoice struct {
	Brand      string `json:"brand"`
	Tone       string `json:"tone"`
	Audience   string `json:"audience"`
	Guidelines string `json:"guidelines"`
}

// RetrievedDocument is one vector-retrieval hit carried through the content
// workflow.
type RetrievedDocument struct {
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ContentState is the state threaded through the content generation graph.
// Each run owns its own instance; nodes mutate it in place and return it.
//
// VectorDocuments doubles as the retrieval gate: nil means retrieval has not
// happened this run, a non-nil (possibly empty) slice means it has.
// Blog/LinkedIn follow the same convention: nil means the generator has not
// produced anything yet, an empty map marks a failed but completed attempt.
type ContentState struct {
	ProjectID    string     `json:"project_id"`
	ProjectTitle string     `json:"project_title"`
	Prompt       string     `json:"prompt"`
	History      string     `json:"history"`
	Intent       []string   `json:"intent"`
	BrandVoice   BrandVoice `json:"brand_voice"`
	Topic        string     `json:"topic"`
	Sections     []string   `json:"sections"`

	VectorDocuments []RetrievedDocument `json:"vector_documents"`

	Blog     map[string]interface{} `json:"blog"`
	LinkedIn map[string]interface{} `json:"linkedin"`

	TopicGenerationAttempted bool `json:"topic_generation_attempted"`
}

// hasIntent reports whether the given intent token was requested,
// case-insensitively.
func (s *ContentState) hasIntent(intent string) bool {
	for _, val := range s.Intent {
		if strings.EqualFold(val, intent) {
			return true
		}
	}
	return false
}

// ResearchResult is the outcome of one research step.
type ResearchResult struct {
	Query    string            `json:"query"`
	Analysis research.Analysis `json:"analysis"`
}

// ResearchState is the state threaded through the guarded research graph.
// Created per chat turn, consumed by one graph invocation, then discarded
// after the caller persists the result.
type ResearchState struct {
	Prompt string `json:"prompt"`
	// History is the serialized recent conversation window, most recent last.
	History string `json:"history"`
	// ResearchOutput is the prior research markdown the guard compares against.
	ResearchOutput string `json:"research_output"`
	// CurrentOutput is the prior markdown the research step should revise.
	CurrentOutput string `json:"current_output"`

	Allowed bool            `json:"allowed"`
	Reason  string          `json:"reason"`
	Result  *ResearchResult `json:"result"`
}

// TitleState is the state for the single-step title graph.
type TitleState struct {
	Summary string `json:"summary"`
	Title   string `json:"title"`
}

// ResearchRecord is the slice of a persisted research output the topic
// generator needs.
type ResearchRecord struct {
	Summary  string
	Keywords []string
	Insights []string
}

// truncate cuts a string to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
