package config

import (
	"os"
	"strconv"
)

type Config struct {
	OpenAIApiKey     string
	PerplexityApiKey string
	SerpApiKey       string
	DatabaseURL      string
	ContentModel     string
	FastModel        string
	TitleModel       string
	EmbeddingModel   string
	EmbeddingDim     int
	Port             string
	ChunkSize        int
	ChunkOverlap     int
	RetrievalTopK    int
	HistoryWindow    int
}

func Load() *Config {
	return &Config{
		OpenAIApiKey:     getEnv("OPENAI_API_KEY", ""),
		PerplexityApiKey: getEnv("PERPLEXITY_API_KEY", ""),
		SerpApiKey:       getEnv("SERPAPI_API_KEY", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		ContentModel:     getEnv("CONTENT_MODEL", "gpt-4o"),
		FastModel:        getEnv("FAST_MODEL", "gpt-4o-mini"),
		TitleModel:       getEnv("TITLE_MODEL", "gpt-4o-mini"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDim:     getEnvAsInt("EMBEDDING_DIM", 1536),
		Port:             getEnv("PORT", "8080"),
		ChunkSize:        getEnvAsInt("CHUNK_SIZE", 1000),
		ChunkOverlap:     getEnvAsInt("CHUNK_OVERLAP", 200),
		RetrievalTopK:    getEnvAsInt("RETRIEVAL_TOP_K", 8),
		HistoryWindow:    getEnvAsInt("HISTORY_WINDOW", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
