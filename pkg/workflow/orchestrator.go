package workflow

import (
	"context"
	"strings"
)

// orchestrate normalizes the working topic and sections and performs the
// single retrieval pass for the run. Retrieval fires at most once: the first
// time a non-empty topic and project are available with no documents fetched
// yet. After the gate fires VectorDocuments is always non-nil, even when the
// search returned nothing or failed.
func (e *Engine) orchestrate(ctx context.Context, s *ContentState) (*ContentState, error) {
	topic := strings.TrimSpace(s.Topic)
	if topic == "" {
		topic = truncate(strings.TrimSpace(s.Prompt), 80)
	}
	s.Topic = topic

	sections := make([]string, 0, len(s.Sections))
	for _, section := range s.Sections {
		if trimmed := strings.TrimSpace(section); trimmed != "" {
			sections = append(sections, trimmed)
		}
	}
	s.Sections = sections

	if topic != "" && s.ProjectID != "" && s.VectorDocuments == nil {
		docs := []RetrievedDocument{}
		if e.retrieve != nil {
			query := strings.TrimSpace(topic + " " + strings.Join(sections, " ") + " " + s.Prompt)
			hits, err := e.retrieve.QueryProjectDocuments(ctx, s.ProjectID, query, e.topK)
			if err != nil {
				e.logger.Warn("Vector retrieval failed, continuing without context", "error", err)
			} else {
				for _, hit := range hits {
					docs = append(docs, RetrievedDocument{Content: hit.Content, Metadata: hit.Metadata})
				}
			}
		}
		s.VectorDocuments = docs
		e.logger.Info("Retrieved project context", "documents", len(docs))
	}

	return s, nil
}

// routeContent picks the next node after each orchestrator pass. Missing
// prerequisites are filled in a fixed order: intent first, then topic and
// sections, then the requested artifacts with blog before LinkedIn.
func (e *Engine) routeContent(ctx context.Context, s *ContentState) string {
	if len(s.Intent) == 0 {
		return nodeIntentClassifier
	}
	if (strings.TrimSpace(s.Topic) == "" || len(s.Sections) == 0) && !s.TopicGenerationAttempted {
		return nodeTopicGenerator
	}
	if s.hasIntent("blog") && s.Blog == nil {
		return nodeBlogGenerator
	}
	if s.hasIntent("linkedin") && s.LinkedIn == nil {
		return nodeLinkedInGenerator
	}
	return nodeEnd
}
