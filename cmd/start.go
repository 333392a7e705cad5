/*
Copyright © 2025 minjcho
*/
package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/minjcho/findoc-be/handler"
	"github.com/minjcho/findoc-be/middleware"
	"github.com/minjcho/findoc-be/service"
	"github.com/spf13/cobra"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the report ingestion and search server",
	Long:  `Starts a server that processes disclosure reports and serves hybrid search`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		application, err := newApp(configPath)
		if err != nil {
			log.Fatalf("Failed to initialize application: %v", err)
		}

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		documentHandler := handler.NewDocumentHandler(application.documents)
		searchHandler := handler.NewSearchHandler(application.search)
		indexHandler := handler.NewIndexHandler(application.indexer)
		wsService := service.NewWebSocketService(application.documents)

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)
		router.Use(middleware.AccessLog())

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/documents/process", documentHandler.ProcessReportHandler)
			apiV1.GET("/documents", documentHandler.ListDocumentsHandler)
			apiV1.GET("/documents/:id", documentHandler.GetDocumentHandler)
			apiV1.PUT("/documents/:id/status", documentHandler.UpdateStatusHandler)
			apiV1.DELETE("/documents/:id", documentHandler.DeleteDocumentHandler)
			apiV1.GET("/documents/code/:code", documentHandler.GetBySecurityCodeHandler)
			apiV1.DELETE("/documents/code/:code", documentHandler.DeleteBySecurityCodeHandler)
			apiV1.POST("/documents/cleanup-duplicates", documentHandler.CleanupDuplicatesHandler)

			apiV1.POST("/index/:code", indexHandler.IndexDocumentHandler)
			apiV1.GET("/index/:code/exists", indexHandler.HasChunksHandler)
			apiV1.DELETE("/index/:code", indexHandler.DeleteChunksHandler)

			apiV1.POST("/search", searchHandler.HandleSearch)
		}

		router.GET("/ws/process", gin.WrapF(wsService.HandleProcess))
		router.GET("/health", gin.WrapH(wsService.Health()))

		log.Printf("Starting server on port %s...\n", application.cfg.Port)
		if err := router.Run(":" + application.cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
