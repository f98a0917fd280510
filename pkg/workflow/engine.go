package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/smallnest/langgraphgo/graph"
	"github.com/tmc/langchaingo/llms"

	"github.com/contentblitz/content-blitz/pkg/research"
	"github.com/contentblitz/content-blitz/pkg/vectorstore"
)

// ResearchProvider runs one grounded research call.
type ResearchProvider interface {
	Query(ctx context.Context, query, history, currentOutput string) (research.Analysis, error)
}

// ResearchStore lists the persisted research outputs of a project. Used by
// the topic generator to synthesize a topic from accumulated research.
type ResearchStore interface {
	ListResearchOutputs(ctx context.Context, projectID string) ([]ResearchRecord, error)
}

// Retriever queries the project-scoped vector store.
type Retriever interface {
	QueryProjectDocuments(ctx context.Context, projectID, query string, k int) ([]vectorstore.Document, error)
}

// BrandVoiceStore loads the saved brand-voice profile.
type BrandVoiceStore interface {
	GetBrandVoice(ctx context.Context) (BrandVoice, error)
}

// Config wires the engine's collaborators. Every field except LLM is
// optional; missing collaborators degrade to their empty results.
type Config struct {
	// LLM generates long-form content (blog and LinkedIn posts).
	LLM llms.Model
	// FastLLM handles classification and extraction calls. Defaults to LLM.
	FastLLM llms.Model
	// TitleLLM generates chat titles. Defaults to FastLLM.
	TitleLLM llms.Model

	Research    ResearchProvider
	Outputs     ResearchStore
	Retriever   Retriever
	BrandVoices BrandVoiceStore

	RetrievalTopK int
	Logger        *slog.Logger
}

// Engine owns the three workflow graphs. Graphs are compiled once and shared
// across runs; all mutable state lives in the per-run state structs.
type Engine struct {
	llm      llms.Model
	fastLLM  llms.Model
	titleLLM llms.Model

	provider ResearchProvider
	outputs  ResearchStore
	retrieve Retriever
	voices   BrandVoiceStore

	topK   int
	logger *slog.Logger

	researchOnce sync.Once
	researchRun  *graph.StateRunnable[*ResearchState]
	researchErr  error

	titleOnce sync.Once
	titleRun  *graph.StateRunnable[*TitleState]
	titleErr  error

	contentOnce sync.Once
	contentRun  *graph.StateRunnable[*ContentState]
	contentErr  error
}

func NewEngine(cfg Config) *Engine {
	fastLLM := cfg.FastLLM
	if fastLLM == nil {
		fastLLM = cfg.LLM
	}
	titleLLM := cfg.TitleLLM
	if titleLLM == nil {
		titleLLM = fastLLM
	}
	topK := cfg.RetrievalTopK
	if topK <= 0 {
		topK = 8
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		llm:      cfg.LLM,
		fastLLM:  fastLLM,
		titleLLM: titleLLM,
		provider: cfg.Research,
		outputs:  cfg.Outputs,
		retrieve: cfg.Retriever,
		voices:   cfg.BrandVoices,
		topK:     topK,
		logger:   logger,
	}
}

// generate runs one chat completion and flattens the response to text.
func (e *Engine) generate(ctx context.Context, model llms.Model, messages []llms.MessageContent, options ...llms.CallOption) (string, error) {
	resp, err := model.GenerateContent(ctx, messages, options...)
	if err != nil {
		return "", err
	}
	return ResponseText(resp), nil
}

// RunResearchWorkflow executes the guarded research graph for one chat turn.
// The returned state carries the guard decision and, when allowed, the
// research result.
func (e *Engine) RunResearchWorkflow(ctx context.Context, prompt, history, currentOutput, researchOutput string) (*ResearchState, error) {
	e.researchOnce.Do(func() {
		e.researchRun, e.researchErr = e.buildResearchGraph()
	})
	if e.researchErr != nil {
		return nil, fmt.Errorf("failed to build research graph: %w", e.researchErr)
	}

	state := &ResearchState{
		Prompt:         prompt,
		History:        history,
		CurrentOutput:  currentOutput,
		ResearchOutput: researchOutput,
	}
	return e.researchRun.Invoke(ctx, state)
}

// RunTitleWorkflow derives a short label from a research summary.
func (e *Engine) RunTitleWorkflow(ctx context.Context, summary string) (string, error) {
	e.titleOnce.Do(func() {
		e.titleRun, e.titleErr = e.buildTitleGraph()
	})
	if e.titleErr != nil {
		return "", fmt.Errorf("failed to build title graph: %w", e.titleErr)
	}

	state, err := e.titleRun.Invoke(ctx, &TitleState{Summary: summary})
	if err != nil {
		return "", err
	}
	return state.Title, nil
}

// RunContentWorkflow executes the content graph for a project. The saved
// brand voice is loaded into the state before the run when a store is wired.
func (e *Engine) RunContentWorkflow(ctx context.Context, projectID, projectTitle, prompt string) (*ContentState, error) {
	e.contentOnce.Do(func() {
		e.contentRun, e.contentErr = e.buildContentGraph()
	})
	if e.contentErr != nil {
		return nil, fmt.Errorf("failed to build content graph: %w", e.contentErr)
	}

	state := &ContentState{
		ProjectID:    projectID,
		ProjectTitle: projectTitle,
		Prompt:       prompt,
	}

	if e.voices != nil {
		voice, err := e.voices.GetBrandVoice(ctx)
		if err != nil {
			e.logger.Warn("Failed to load brand voice, continuing without it", "error", err)
		} else {
			state.BrandVoice = voice
		}
	}

	return e.contentRun.Invoke(ctx, state)
}
