package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// guardRelevance decides whether a new chat turn stays in scope for the
// active research thread. With nothing to compare against (blank prompt or no
// prior research) the gate passes without a classifier call. A classifier
// transport failure propagates: an unclassifiable turn must not default to
// allowed.
func (e *Engine) guardRelevance(ctx context.Context, s *ResearchState) (*ResearchState, error) {
	prompt := strings.TrimSpace(s.Prompt)
	researchOutput := strings.TrimSpace(s.ResearchOutput)
	if prompt == "" || researchOutput == "" {
		s.Allowed = true
		s.Reason = ""
		return s, nil
	}

	if e.fastLLM == nil {
		e.logger.Info("Relevance guard bypassed: no classifier model configured")
		s.Allowed = true
		s.Reason = ""
		return s, nil
	}

	text, err := e.generate(ctx, e.fastLLM, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf(guardPromptTemplate, researchOutput, prompt)),
	})
	if err != nil {
		return nil, fmt.Errorf("relevance classification failed: %w", err)
	}

	decision := strings.ToLower(strings.TrimSpace(text))
	// A response echoing both tokens resolves to rejected.
	s.Allowed = strings.Contains(decision, "allow") && !strings.Contains(decision, "reject")
	s.Reason = decision
	e.logger.Info("Relevance guard decision", "allowed", s.Allowed)
	return s, nil
}
