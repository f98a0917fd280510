package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/contentblitz/content-blitz/pkg/embeddings"
	"github.com/contentblitz/content-blitz/pkg/splitter"
)

// Service ties the vector store to the embedder and chunker. A nil Service or
// a Service without a store degrades gracefully: upserts are skipped and
// queries return nothing, so research and content flows keep working without
// a configured vector database.
type Service struct {
	store    *PGVectorStore
	embedder *embeddings.OpenAIEmbedder
	splitter *splitter.TextSplitter
	logger   *slog.Logger
}

func NewService(store *PGVectorStore, embedder *embeddings.OpenAIEmbedder, chunkSize, chunkOverlap int) *Service {
	return &Service{
		store:    store,
		embedder: embedder,
		splitter: splitter.NewRecursiveCharacterTextSplitter(chunkSize, chunkOverlap),
		logger:   slog.Default(),
	}
}

func (s *Service) available() bool {
	return s != nil && s.store != nil && s.embedder != nil
}

// buildPayload assembles the text that gets embedded for a research output.
func buildPayload(summary string, keywords, insights []string) string {
	var parts []string
	if summary != "" {
		parts = append(parts, summary)
	}

	var kws []string
	for _, kw := range keywords {
		if trimmed := strings.TrimSpace(kw); trimmed != "" {
			kws = append(kws, trimmed)
		}
	}
	if len(kws) > 0 {
		parts = append(parts, "Keywords: "+strings.Join(kws, ", "))
	}

	var ins []string
	for _, in := range insights {
		if trimmed := strings.TrimSpace(in); trimmed != "" {
			ins = append(ins, trimmed)
		}
	}
	if len(ins) > 0 {
		parts = append(parts, "Insights: "+strings.Join(ins, " | "))
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// UpsertResearchOutput embeds a research output and stores it under the
// project's namespace, keyed by chat id. Chunks replace any previous chunks
// for the same chat.
func (s *Service) UpsertResearchOutput(ctx context.Context, projectID, chatID, summary string, keywords, insights []string) error {
	payload := buildPayload(summary, keywords, insights)
	if payload == "" {
		s.logger.Info("Skipping vector upsert: no payload text", "chat_id", chatID)
		return nil
	}
	if !s.available() {
		s.logger.Info("Skipping vector upsert: vector store unavailable", "namespace", projectID)
		return nil
	}

	chunks, err := s.splitter.SplitText(payload)
	if err != nil {
		return fmt.Errorf("failed to split research payload: %w", err)
	}
	if len(chunks) == 0 {
		chunks = []string{payload}
	}

	vectors, err := s.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to embed research payload: %w", err)
	}

	docs := make([]Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, Document{
			ID:      fmt.Sprintf("%s:%d", chatID, i),
			Content: chunk,
			Metadata: map[string]interface{}{
				"chat_id":    chatID,
				"project_id": projectID,
			},
			Embedding: vectors[i],
		})
	}

	s.logger.Info("Upserting research output into vector store", "namespace", projectID, "chat_id", chatID, "chunks", len(docs))
	return s.store.Upsert(ctx, projectID, chatID+":", docs)
}

// QueryProjectDocuments retrieves similar documents from a project namespace.
// Retrieval failure is not fatal to the caller: an unavailable store yields
// an empty result.
func (s *Service) QueryProjectDocuments(ctx context.Context, projectID, query string, k int) ([]Document, error) {
	if !s.available() {
		s.logger.Info("Vector retrieval skipped: vector store unavailable", "namespace", projectID)
		return nil, nil
	}

	queryVec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.store.SimilaritySearch(ctx, projectID, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	docs := make([]Document, 0, len(results))
	for _, res := range results {
		docs = append(docs, res.Document)
	}
	s.logger.Info("Retrieved vector documents", "namespace", projectID, "count", len(docs))
	return docs, nil
}

// DeleteChatDocuments removes the vector chunks belonging to a chat.
func (s *Service) DeleteChatDocuments(ctx context.Context, projectID, chatID string) error {
	if !s.available() {
		return nil
	}
	return s.store.DeleteByMetadata(ctx, projectID, map[string]interface{}{"chat_id": chatID})
}
