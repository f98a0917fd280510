package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// formatContext renders retrieved documents into the numbered snippet block
// the generator prompts consume.
func formatContext(docs []RetrievedDocument) string {
	if len(docs) == 0 {
		return "No additional context available."
	}
	lines := make([]string, 0, len(docs))
	for i, doc := range docs {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, doc.Content))
	}
	return strings.Join(lines, "\n")
}

// brandGuidance renders the saved brand voice for the blog prompt. With no
// saved profile the project title stands in as the brand name.
func brandGuidance(voice BrandVoice, projectTitle string) string {
	var parts []string
	if v := strings.TrimSpace(voice.Brand); v != "" {
		parts = append(parts, "Brand: "+v)
	}
	if v := strings.TrimSpace(voice.Tone); v != "" {
		parts = append(parts, "Tone: "+v)
	}
	if v := strings.TrimSpace(voice.Audience); v != "" {
		parts = append(parts, "Audience: "+v)
	}
	if v := strings.TrimSpace(voice.Guidelines); v != "" {
		parts = append(parts, "Guidelines: "+v)
	}
	if len(parts) == 0 {
		brand := strings.TrimSpace(projectTitle)
		if brand == "" {
			return "Brand"
		}
		return "Brand: " + brand
	}
	return strings.Join(parts, ". ")
}

// contentMessages assembles the generator call: conversation history first
// when present, then the rendered prompt.
func contentMessages(history, prompt string) []llms.MessageContent {
	var messages []llms.MessageContent
	if strings.TrimSpace(history) != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, "Conversation context:\n"+history))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))
	return messages
}

// generateBlog produces the blog artifact. Non-JSON model output degrades to
// a fallback artifact that keeps the raw text as the post body.
func (e *Engine) generateBlog(ctx context.Context, s *ContentState) (map[string]interface{}, error) {
	if e.llm == nil {
		return nil, errors.New("no content model configured")
	}

	prompt := fmt.Sprintf(blogPromptTemplate,
		s.Topic,
		strings.Join(s.Sections, ", "),
		brandGuidance(s.BrandVoice, s.ProjectTitle),
		s.Prompt,
		formatContext(s.VectorDocuments))

	text, err := e.generate(ctx, e.llm, contentMessages(s.History, prompt),
		llms.WithTemperature(0.2), llms.WithTopP(0.9))
	if err != nil {
		return nil, fmt.Errorf("blog generation failed: %w", err)
	}

	return ParseStructured(text, func(raw string) map[string]interface{} {
		return map[string]interface{}{
			"blog_markdown":    raw,
			"meta_title":       truncate(s.Topic, 60),
			"meta_description": truncate(s.Prompt, 150),
		}
	}), nil
}

// generateLinkedIn produces the LinkedIn artifact with the same degradation
// contract as generateBlog.
func (e *Engine) generateLinkedIn(ctx context.Context, s *ContentState) (map[string]interface{}, error) {
	if e.llm == nil {
		return nil, errors.New("no content model configured")
	}

	prompt := fmt.Sprintf(linkedinPromptTemplate,
		s.Topic,
		strings.Join(s.Sections, ", "),
		s.Prompt,
		formatContext(s.VectorDocuments))

	text, err := e.generate(ctx, e.llm, contentMessages(s.History, prompt),
		llms.WithTemperature(0.2), llms.WithTopP(0.9))
	if err != nil {
		return nil, fmt.Errorf("linkedin generation failed: %w", err)
	}

	return ParseStructured(text, func(raw string) map[string]interface{} {
		return map[string]interface{}{
			"post":     raw,
			"carousel": "",
		}
	}), nil
}

// blogNode runs the blog generator. Failures never abort the workflow: the
// artifact slot is marked attempted with an empty map so the router moves on.
func (e *Engine) blogNode(ctx context.Context, s *ContentState) (*ContentState, error) {
	artifact, err := e.generateBlog(ctx, s)
	if err != nil {
		e.logger.Error("Blog generation failed", "error", err)
		artifact = map[string]interface{}{}
	}
	s.Blog = artifact
	return s, nil
}

// linkedinNode runs the LinkedIn generator with the same failure contract as
// blogNode.
func (e *Engine) linkedinNode(ctx context.Context, s *ContentState) (*ContentState, error) {
	artifact, err := e.generateLinkedIn(ctx, s)
	if err != nil {
		e.logger.Error("LinkedIn generation failed", "error", err)
		artifact = map[string]interface{}{}
	}
	s.LinkedIn = artifact
	return s, nil
}
