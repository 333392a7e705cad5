/*
Copyright © 2025 minjcho
*/
package cmd

import (
	"log"

	"github.com/minjcho/findoc-be/config"
	"github.com/minjcho/findoc-be/database"
	"github.com/minjcho/findoc-be/repository"
	"github.com/minjcho/findoc-be/service"
)

// app holds the wired service graph shared by the CLI commands.
type app struct {
	cfg       *config.Config
	documents service.DocumentService
	indexer   service.IndexService
	search    service.SearchService
	weaviate  *database.WeaviateStore
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	mongoClient, err := database.NewMongoClient(cfg.Mongo)
	if err != nil {
		return nil, err
	}
	mongoDb := mongoClient.Database(cfg.Mongo.Database)
	repo := repository.NewDocumentRepo(mongoDb, cfg.Mongo.Collection)

	weaviateDb, err := database.NewWeaviateStore(cfg.Weaviate)
	if err != nil {
		return nil, err
	}

	var cache database.DocumentCache
	if cfg.Redis.Addr != "" {
		redisCache, err := database.NewRedisDocumentCache(cfg.Redis)
		if err != nil {
			return nil, err
		}
		cache = redisCache
	} else {
		log.Println("No Redis address configured, document cache disabled")
		cache = database.NewNoopDocumentCache()
	}

	aiService := service.NewOpenAIService(cfg.OpenAI)

	// Gemini takes over page extraction when its keys are configured;
	// embeddings always go through OpenAI.
	var extractor service.Extractor = aiService
	if len(cfg.Gemini.APIKeys) > 0 {
		geminiService, err := service.NewGeminiService(cfg.Gemini)
		if err != nil {
			return nil, err
		}
		extractor = geminiService
	}

	downloadService, err := service.NewDownloadService(cfg.Pipeline, cfg.DownloadDir)
	if err != nil {
		return nil, err
	}
	pdfService := service.NewPDFService()
	extractService := service.NewExtractService(extractor, cfg.Pipeline)
	promptService := service.NewPromptService()

	documentService := service.NewDocumentService(
		repo,
		cache,
		weaviateDb,
		downloadService,
		pdfService,
		extractService,
		promptService,
	)
	indexService := service.NewIndexService(repo, weaviateDb, aiService, cfg.Pipeline)
	searchService := service.NewSearchService(weaviateDb, aiService, cfg.Search)

	return &app{
		cfg:       cfg,
		documents: documentService,
		indexer:   indexService,
		search:    searchService,
		weaviate:  weaviateDb,
	}, nil
}
