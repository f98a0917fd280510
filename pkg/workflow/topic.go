package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// extractTopicSections pulls an explicit topic and section list out of the
// user's prompt. It never invents either: any extraction failure leaves both
// empty so the topic generator can take over on the next pass.
func (e *Engine) extractTopicSections(ctx context.Context, s *ContentState) (*ContentState, error) {
	s.Topic = ""
	s.Sections = nil

	if e.fastLLM == nil {
		return s, nil
	}

	text, err := e.generate(ctx, e.fastLLM, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, topicSectionsPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, s.Prompt),
	})
	if err != nil {
		e.logger.Warn("Topic extraction call failed", "error", err)
		return s, nil
	}

	payload := ParseStructured(text, func(string) map[string]interface{} {
		return map[string]interface{}{}
	})
	s.Topic = strings.TrimSpace(stringValue(payload["topic"]))
	for _, section := range stringList(payload["sections"]) {
		if trimmed := strings.TrimSpace(section); trimmed != "" {
			s.Sections = append(s.Sections, trimmed)
		}
	}
	e.logger.Info("Topic extraction", "topic", s.Topic, "sections", len(s.Sections))
	return s, nil
}

// generateTopicSections synthesizes a topic and outline from the project's
// accumulated research metadata when the prompt did not provide one. Every
// branch marks the attempt so the router never routes here twice.
func (e *Engine) generateTopicSections(ctx context.Context, s *ContentState) (*ContentState, error) {
	s.TopicGenerationAttempted = true

	if s.ProjectID == "" || e.outputs == nil {
		s.Topic = ""
		s.Sections = nil
		return s, nil
	}

	records, err := e.outputs.ListResearchOutputs(ctx, s.ProjectID)
	if err != nil {
		e.logger.Warn("Failed to list research outputs for topic generation", "error", err)
		records = nil
	}
	if len(records) == 0 {
		s.Topic = strings.TrimSpace(s.Prompt)
		s.Sections = nil
		return s, nil
	}

	corpus := buildResearchCorpus(records)
	if e.llm == nil {
		s.Topic = strings.TrimSpace(s.Prompt)
		s.Sections = nil
		return s, nil
	}

	text, err := e.generate(ctx, e.llm, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(topicGeneratorPromptTemplate, corpus)),
		llms.TextParts(llms.ChatMessageTypeHuman, "Propose a grounded topic and outline."),
	})
	if err != nil {
		e.logger.Warn("Topic generation call failed", "error", err)
		s.Topic = strings.TrimSpace(s.Prompt)
		s.Sections = nil
		return s, nil
	}

	payload := ParseStructured(text, func(string) map[string]interface{} {
		return map[string]interface{}{}
	})
	topic := strings.TrimSpace(stringValue(payload["topic"]))
	if topic == "" {
		s.Topic = strings.TrimSpace(s.Prompt)
		s.Sections = nil
		return s, nil
	}

	s.Topic = topic
	s.Sections = nil
	for _, section := range stringList(payload["sections"]) {
		if trimmed := strings.TrimSpace(section); trimmed != "" {
			s.Sections = append(s.Sections, trimmed)
		}
	}
	e.logger.Info("Topic generated from research corpus", "topic", s.Topic, "sections", len(s.Sections))
	return s, nil
}

// buildResearchCorpus flattens persisted research records into the metadata
// block the topic generator prompt consumes.
func buildResearchCorpus(records []ResearchRecord) string {
	lines := make([]string, 0, len(records))
	for i, record := range records {
		lines = append(lines, fmt.Sprintf("Document %d Summary: %s\nKeywords: %s\nInsights: %s",
			i+1,
			record.Summary,
			strings.Join(record.Keywords, ", "),
			strings.Join(record.Insights, " | ")))
	}
	return strings.Join(lines, "\n\n")
}
