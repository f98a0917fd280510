package workflow

import (
	"context"

	"github.com/smallnest/langgraphgo/graph"
)

const (
	nodeGuard    = "guard"
	nodeResearch = "research"
	nodeTitle    = "title"

	nodeOrchestrator      = "orchestrator"
	nodeIntentClassifier  = "intent_classifier"
	nodeTopicExtractor    = "topic_extractor"
	nodeTopicGenerator    = "topic_generator"
	nodeBlogGenerator     = "blog_generator"
	nodeLinkedInGenerator = "linkedin_generator"

	nodeEnd = graph.END
)

// buildResearchGraph wires the guarded research flow: the relevance guard
// runs first and only an allowed turn reaches the research step.
func (e *Engine) buildResearchGraph() (*graph.StateRunnable[*ResearchState], error) {
	g := graph.NewStateGraph[*ResearchState]()

	g.AddNode(nodeGuard, "Gate the turn on relevance to the existing research", e.guardRelevance)
	g.AddNode(nodeResearch, "Run one grounded research call", e.researchStep)

	g.AddConditionalEdge(nodeGuard, func(ctx context.Context, s *ResearchState) string {
		if s.Allowed {
			return nodeResearch
		}
		return nodeEnd
	})
	g.AddEdge(nodeResearch, nodeEnd)
	g.SetEntryPoint(nodeGuard)

	return g.Compile()
}

// buildTitleGraph wires the single-step title flow.
func (e *Engine) buildTitleGraph() (*graph.StateRunnable[*TitleState], error) {
	g := graph.NewStateGraph[*TitleState]()

	g.AddNode(nodeTitle, "Derive a short title from a research summary", e.generateTitle)
	g.AddEdge(nodeTitle, nodeEnd)
	g.SetEntryPoint(nodeTitle)

	return g.Compile()
}

// buildContentGraph wires the orchestrated content flow. The orchestrator is
// the hub: every worker node returns to it, and its conditional edge decides
// which prerequisite or artifact is still missing. Intent classification
// flows straight into topic extraction so a prompt-supplied topic is found
// before the generator fallback is considered.
func (e *Engine) buildContentGraph() (*graph.StateRunnable[*ContentState], error) {
	g := graph.NewStateGraph[*ContentState]()

	g.AddNode(nodeOrchestrator, "Normalize topic and sections and retrieve project context", e.orchestrate)
	g.AddNode(nodeIntentClassifier, "Classify the requested content formats", e.classifyIntent)
	g.AddNode(nodeTopicExtractor, "Extract an explicit topic and sections from the prompt", e.extractTopicSections)
	g.AddNode(nodeTopicGenerator, "Synthesize a topic and outline from project research", e.generateTopicSections)
	g.AddNode(nodeBlogGenerator, "Generate the blog artifact", e.blogNode)
	g.AddNode(nodeLinkedInGenerator, "Generate the LinkedIn artifact", e.linkedinNode)

	g.AddEdge(nodeIntentClassifier, nodeTopicExtractor)
	g.AddEdge(nodeTopicExtractor, nodeOrchestrator)
	g.AddEdge(nodeTopicGenerator, nodeOrchestrator)
	g.AddEdge(nodeBlogGenerator, nodeOrchestrator)
	g.AddEdge(nodeLinkedInGenerator, nodeOrchestrator)
	g.AddConditionalEdge(nodeOrchestrator, e.routeContent)
	g.SetEntryPoint(nodeOrchestrator)

	return g.Compile()
}
