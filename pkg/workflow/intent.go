package workflow

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// classifyIntent detects whether the user wants LinkedIn content, blog
// content, or both. The workflow never proceeds with zero intents: any
// classifier failure or unrecognized output defaults to both.
func (e *Engine) classifyIntent(ctx context.Context, s *ContentState) (*ContentState, error) {
	var intents []string

	if e.fastLLM != nil {
		text, err := e.generate(ctx, e.fastLLM, []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, intentPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, s.Prompt),
		})
		if err != nil {
			e.logger.Warn("Intent classifier call failed, defaulting to both intents", "error", err)
		} else {
			payload := ParseStructured(text, func(string) map[string]interface{} {
				return map[string]interface{}{}
			})
			intents = stringList(payload["intent"])
		}
	}

	s.Intent = normalizeIntents(intents)
	e.logger.Info("Intent classifier decision", "intent", s.Intent)
	return s, nil
}

// normalizeIntents maps raw classifier tokens onto the canonical intent set.
// Unrecognized tokens are dropped; an empty result defaults to both.
func normalizeIntents(intents []string) []string {
	var normalized []string
	for _, intent := range intents {
		switch strings.ToLower(intent) {
		case "linkedin":
			normalized = append(normalized, "LinkedIn")
		case "blog":
			normalized = append(normalized, "blog")
		}
	}
	if len(normalized) == 0 {
		normalized = []string{"LinkedIn", "blog"}
	}
	return normalized
}
