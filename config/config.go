package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/SaiVinayBathoju/SaiV/database"
)

type Config struct {
	Port         string                       `mapstructure:"port"`
	CORSOrigins  []string                     `mapstructure:"cors_origins"`
	AIProvider   string                       `mapstructure:"ai_provider"`
	OpenAI       OpenAIConfig                 `mapstructure:"openai"`
	Gemini       GeminiConfig                 `mapstructure:"gemini"`
	ChunkSize    int                          `mapstructure:"chunk_size"`
	ChunkOverlap int                          `mapstructure:"chunk_overlap"`
	TopK         int                          `mapstructure:"top_k"`
	MaxPDFPages  int                          `mapstructure:"max_pdf_pages"`
	Weaviate     database.WeaviateStoreConfig `mapstructure:"weaviate"`
}

type OpenAIConfig struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	EmbeddingModel      string `mapstructure:"embedding_model"`
	EmbeddingDimensions int    `mapstructure:"embedding_dimensions"`
	FallbackToLocal     bool   `mapstructure:"fallback_to_local"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// LoadConfig reads settings from an optional YAML file and the environment.
// Environment variables override file values.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8000")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("ai_provider", "auto")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")
	v.SetDefault("openai.embedding_dimensions", 1536)
	v.SetDefault("openai.fallback_to_local", true)
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.embedding_model", "text-embedding-004")
	v.SetDefault("chunk_size", 512)
	v.SetDefault("chunk_overlap", 50)
	v.SetDefault("top_k", 5)
	v.SetDefault("max_pdf_pages", 100)
	v.SetDefault("weaviate.host", "http://localhost:8080")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("weaviate.api_key", "WEAVIATE_APIKEY")
	v.BindEnv("weaviate.host", "WEAVIATE_HOST")
	v.BindEnv("port", "PORT")
	v.BindEnv("ai_provider", "AI_PROVIDER")
	v.BindEnv("openai.fallback_to_local", "EMBEDDING_FALLBACK_TO_LOCAL")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
