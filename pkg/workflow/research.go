package workflow

import (
	"context"
	"fmt"

	"github.com/contentblitz/content-blitz/pkg/research"
)

// runResearch executes one grounded research call. The result is always a
// well-formed analysis: an unconfigured provider yields the empty record and
// a transport failure yields a record whose summary carries the error.
func (e *Engine) runResearch(ctx context.Context, query, history, currentOutput string) ResearchResult {
	if e.provider == nil {
		return ResearchResult{Query: query, Analysis: research.EmptyAnalysis()}
	}

	analysis, err := e.provider.Query(ctx, query, history, currentOutput)
	if err != nil {
		e.logger.Warn("Research provider call failed", "error", err)
		analysis = research.EmptyAnalysis()
		analysis.Summary = fmt.Sprintf("Research provider error: %v", err)
	}
	return ResearchResult{Query: query, Analysis: analysis}
}

// researchStep is the research node of the guarded research graph.
func (e *Engine) researchStep(ctx context.Context, s *ResearchState) (*ResearchState, error) {
	result := e.runResearch(ctx, s.Prompt, s.History, s.CurrentOutput)
	s.Result = &result
	return s, nil
}
