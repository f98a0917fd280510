package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// generateTitle derives a short label from a research summary. A blank
// summary or a missing model yields an empty title without an LLM call.
func (e *Engine) generateTitle(ctx context.Context, s *TitleState) (*TitleState, error) {
	summary := strings.TrimSpace(s.Summary)
	if summary == "" || e.titleLLM == nil {
		s.Title = ""
		return s, nil
	}

	text, err := e.generate(ctx, e.titleLLM, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, titlePromptPrefix+summary),
	})
	if err != nil {
		return nil, fmt.Errorf("title generation failed: %w", err)
	}

	s.Title = strings.TrimSpace(text)
	return s, nil
}
