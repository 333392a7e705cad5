package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, "port: \"9090\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "findoc", cfg.Mongo.Database)
	assert.Equal(t, "pdf_documents", cfg.Mongo.Collection)
	assert.Equal(t, 1024, cfg.Pipeline.ChunkSize)
	assert.Equal(t, 128, cfg.Pipeline.ChunkOverlap)
	assert.Equal(t, 4, cfg.Pipeline.MaxConcurrentPages)
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.InDelta(t, 0.7, cfg.Search.DefaultVectorWeight, 1e-9)
	assert.InDelta(t, 0.3, cfg.Search.DefaultKeywordWeight, 1e-9)
}

func TestLoadConfig_OverridesFromFile(t *testing.T) {
	path := writeConfigFile(t, `
port: "8081"
pipeline:
  chunk_size: 2048
  chunk_overlap: 256
  max_concurrent_pages: 8
search:
  default_limit: 25
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 2048, cfg.Pipeline.ChunkSize)
	assert.Equal(t, 256, cfg.Pipeline.ChunkOverlap)
	assert.Equal(t, 8, cfg.Pipeline.MaxConcurrentPages)
	assert.Equal(t, 25, cfg.Search.DefaultLimit)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate_RejectsBadChunkSettings(t *testing.T) {
	path := writeConfigFile(t, `
pipeline:
  chunk_size: 100
  chunk_overlap: 100
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk_overlap")
}

func TestValidate_RejectsZeroWeights(t *testing.T) {
	path := writeConfigFile(t, `
search:
  default_vector_weight: 0
  default_keyword_weight: 0
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights")
}
