/*
Copyright © 2025 minjcho
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// indexReportCmd represents the indexReport command
var indexReportCmd = &cobra.Command{
	Use:   "index-report",
	Short: "Chunk and embed a stored document into the vector index",
	Long: `Reads the stored document for a security code, splits it into chunks,
embeds them and replaces the chunk set in the vector index. With --reinit
the index class is dropped and recreated first.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		securityCode, _ := cmd.Flags().GetString("code")
		reinit, _ := cmd.Flags().GetBool("reinit")

		application, err := newApp(configPath)
		if err != nil {
			log.Fatalf("Failed to initialize application: %v", err)
		}

		if reinit {
			if err := application.weaviate.ReInit(); err != nil {
				log.Fatalf("Failed to reinitialize vector index: %v", err)
			}
			log.Println("Vector index recreated")
		}

		if securityCode == "" {
			if !reinit {
				log.Fatal("--code is required")
			}
			return
		}

		result, err := application.indexer.IndexDocument(context.Background(), securityCode)
		if err != nil {
			log.Fatalf("Failed to index document: %v", err)
		}
		fmt.Printf("Indexed %s: %d chunks (%d failed)\n",
			result.SecurityCode, result.ChunkCount, result.FailedChunks)
	},
}

func init() {
	rootCmd.AddCommand(indexReportCmd)
	indexReportCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
	indexReportCmd.Flags().String("code", "", "security code of the stored document")
	indexReportCmd.Flags().Bool("reinit", false, "drop and recreate the index class first")
}
