package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string         `mapstructure:"port"`
	DownloadDir string         `mapstructure:"download_dir"`
	Mongo       MongoConfig    `mapstructure:"mongo"`
	Weaviate    WeaviateConfig `mapstructure:"weaviate"`
	Redis       RedisConfig    `mapstructure:"redis"`
	OpenAI      OpenAIConfig   `mapstructure:"openai"`
	Gemini      GeminiConfig   `mapstructure:"gemini"`
	Pipeline    PipelineConfig `mapstructure:"pipeline"`
	Search      SearchConfig   `mapstructure:"search"`
}

type MongoConfig struct {
	URI        string `mapstructure:"MONGODB_URI"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type WeaviateConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"db"`
	TTLSec   int    `mapstructure:"ttl_sec"`
}

type OpenAIConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	APIKey             string `mapstructure:"OPENAI_API_KEY"`
	Model              string `mapstructure:"model"`
	EmbeddingModel     string `mapstructure:"embedding_model"`
	EmbeddingDimension int    `mapstructure:"embedding_dimension"`
	MaxTokens          int    `mapstructure:"max_tokens"`
}

type GeminiConfig struct {
	APIKeys []string `mapstructure:"GEMINI_API_KEYS"`
	Model   string   `mapstructure:"model"`
}

type PipelineConfig struct {
	ReportBaseURL      string `mapstructure:"report_base_url"`
	MaxPDFSizeMB       int    `mapstructure:"max_pdf_size_mb"`
	DownloadTimeoutSec int    `mapstructure:"download_timeout_sec"`
	MaxConcurrentPages int    `mapstructure:"max_concurrent_pages"`
	PageTimeoutSec     int    `mapstructure:"page_timeout_sec"`
	LLMRatePerSec      int    `mapstructure:"llm_rate_per_sec"`
	ChunkSize          int    `mapstructure:"chunk_size"`
	ChunkOverlap       int    `mapstructure:"chunk_overlap"`
	EmbedBatchSize     int    `mapstructure:"embed_batch_size"`
}

type SearchConfig struct {
	DefaultLimit         int     `mapstructure:"default_limit"`
	DefaultVectorWeight  float64 `mapstructure:"default_vector_weight"`
	DefaultKeywordWeight float64 `mapstructure:"default_keyword_weight"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables for secrets
	v.BindEnv("mongo.MONGODB_URI", "MONGODB_URI")
	v.BindEnv("weaviate.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")
	v.BindEnv("redis.REDIS_PASSWORD", "REDIS_PASSWORD")
	v.BindEnv("openai.OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("gemini.GEMINI_API_KEYS", "GEMINI_API_KEYS")
	v.BindEnv("pipeline.report_base_url", "REPORT_BASE_URL")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("download_dir", "downloads")
	v.SetDefault("mongo.database", "findoc")
	v.SetDefault("mongo.collection", "pdf_documents")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl_sec", 300)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")
	v.SetDefault("openai.embedding_dimension", 1536)
	v.SetDefault("openai.max_tokens", 4096)
	v.SetDefault("pipeline.max_pdf_size_mb", 50)
	v.SetDefault("pipeline.download_timeout_sec", 60)
	v.SetDefault("pipeline.max_concurrent_pages", 4)
	v.SetDefault("pipeline.page_timeout_sec", 60)
	v.SetDefault("pipeline.llm_rate_per_sec", 2)
	v.SetDefault("pipeline.chunk_size", 1024)
	v.SetDefault("pipeline.chunk_overlap", 128)
	v.SetDefault("pipeline.embed_batch_size", 64)
	v.SetDefault("search.default_limit", 10)
	v.SetDefault("search.default_vector_weight", 0.7)
	v.SetDefault("search.default_keyword_weight", 0.3)
}

// Validate rejects option combinations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Pipeline.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Pipeline.ChunkSize)
	}
	if c.Pipeline.ChunkOverlap < 0 || c.Pipeline.ChunkOverlap >= c.Pipeline.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", c.Pipeline.ChunkOverlap)
	}
	if c.Pipeline.MaxConcurrentPages <= 0 {
		return fmt.Errorf("max_concurrent_pages must be positive, got %d", c.Pipeline.MaxConcurrentPages)
	}
	if c.Pipeline.PageTimeoutSec <= 0 {
		return fmt.Errorf("page_timeout_sec must be positive, got %d", c.Pipeline.PageTimeoutSec)
	}
	if c.Pipeline.EmbedBatchSize <= 0 {
		return fmt.Errorf("embed_batch_size must be positive, got %d", c.Pipeline.EmbedBatchSize)
	}
	if c.OpenAI.EmbeddingDimension <= 0 {
		return fmt.Errorf("embedding_dimension must be positive, got %d", c.OpenAI.EmbeddingDimension)
	}
	if c.Search.DefaultVectorWeight == 0 && c.Search.DefaultKeywordWeight == 0 {
		return fmt.Errorf("default search weights must not both be zero")
	}
	return nil
}
