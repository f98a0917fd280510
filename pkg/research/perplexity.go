package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/contentblitz/content-blitz/pkg/clients"
)

// perplexitySystemPrompt instructs Sonar to answer with a strict JSON record.
const perplexitySystemPrompt = "You are a grounded research assistant. Use reliable sources and return JSON with: " +
	"summary (<=10000 words, in markdown), keywords (8-12 items), insights (3-5 bullets), references " +
	"(list of {title, url, snippet}). Keep responses factual and cite URLs."

// Reference is a cited source within a research analysis.
type Reference struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Analysis is the structured result of one grounded research call.
type Analysis struct {
	Summary    string      `json:"summary"`
	Keywords   []string    `json:"keywords"`
	Insights   []string    `json:"insights"`
	References []Reference `json:"references"`
}

// EmptyAnalysis returns the well-formed zero record used when the provider is
// unconfigured. Absence of research is a valid state, not an error.
func EmptyAnalysis() Analysis {
	return Analysis{
		Keywords:   []string{},
		Insights:   []string{},
		References: []Reference{},
	}
}

// PerplexityClient performs grounded research via Perplexity Sonar. A client
// without an API key is valid and always returns the empty analysis.
type PerplexityClient struct {
	llm    llms.Model
	logger *slog.Logger
}

// NewPerplexityClient builds a client; an empty API key yields an
// unconfigured client rather than an error.
func NewPerplexityClient(apiKey string) (*PerplexityClient, error) {
	c := &PerplexityClient{logger: slog.Default()}
	if apiKey == "" {
		return c, nil
	}

	llm, err := clients.Perplexity(apiKey, "sonar")
	if err != nil {
		return nil, fmt.Errorf("failed to init Perplexity client: %w", err)
	}
	c.llm = llm
	return c, nil
}

// Configured reports whether the client can reach the provider.
func (c *PerplexityClient) Configured() bool {
	return c.llm != nil
}

func buildResearchRequest(query, history, currentOutput string) string {
	var b strings.Builder
	b.WriteString("Update the research output based on the user's latest prompt.\n")
	b.WriteString("Latest prompt: " + query + "\n")
	if currentOutput != "" {
		b.WriteString("\nCurrent research output (markdown):\n" + currentOutput)
	} else {
		b.WriteString("\nCurrent research output (markdown): None yet. Begin a new research output.")
	}
	if history != "" {
		b.WriteString("\n\nConversation context (most recent last):\n" + history)
	}
	b.WriteString("\n\nReturn JSON with fields: summary (markdown), keywords (list of strings), " +
		"insights (bullet points), references (list of {title, url, snippet}).")
	return b.String()
}

// Query runs one grounded research call. Transport errors are returned to the
// caller; a response that is not valid JSON degrades to an analysis carrying
// the raw text as its summary.
func (c *PerplexityClient) Query(ctx context.Context, query, history, currentOutput string) (Analysis, error) {
	if !c.Configured() {
		c.logger.Info("Perplexity unconfigured, returning empty analysis")
		return EmptyAnalysis(), nil
	}

	resp, err := c.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, perplexitySystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildResearchRequest(query, history, currentOutput)),
	}, llms.WithTemperature(0.2), llms.WithTopP(0.9))
	if err != nil {
		return Analysis{}, fmt.Errorf("perplexity call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Analysis{}, fmt.Errorf("perplexity returned no choices")
	}

	content := resp.Choices[0].Content

	var analysis Analysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		c.logger.Warn("Perplexity response was not valid JSON, using raw text as summary")
		analysis = EmptyAnalysis()
		analysis.Summary = content
	}
	return analysis, nil
}
