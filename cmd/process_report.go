/*
Copyright © 2025 minjcho
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/minjcho/findoc-be/types"
	"github.com/spf13/cobra"
)

// processReportCmd represents the processReport command
var processReportCmd = &cobra.Command{
	Use:   "process-report",
	Short: "Download and extract one disclosure report",
	Long: `Downloads the report for a security code, extracts every page with
the configured LLM and stores the aggregated document. With --index the
document is chunked and embedded into the vector index afterwards.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		securityCode, _ := cmd.Flags().GetString("code")
		profile, _ := cmd.Flags().GetString("profile")
		alsoIndex, _ := cmd.Flags().GetBool("index")

		if securityCode == "" {
			log.Fatal("--code is required")
		}

		application, err := newApp(configPath)
		if err != nil {
			log.Fatalf("Failed to initialize application: %v", err)
		}

		ctx := context.Background()
		doc, err := application.documents.ProcessReport(ctx, types.ProcessRequest{
			SecurityCode:  securityCode,
			PromptProfile: profile,
		}, func(status types.ProcessingStatus) {
			log.Printf("[%s] %s", status.Status, status.Message)
		})
		if err != nil {
			log.Fatalf("Failed to process report: %v", err)
		}

		fmt.Printf("Document %s saved: %d/%d pages, status %s\n",
			doc.SecurityCode, doc.SuccessfulPages, doc.TotalPages, doc.Status)
		if len(doc.FailedPages) > 0 {
			fmt.Printf("Failed pages: %v\n", doc.FailedPages)
		}

		if alsoIndex {
			result, err := application.indexer.IndexDocument(ctx, securityCode)
			if err != nil {
				log.Fatalf("Failed to index document: %v", err)
			}
			fmt.Printf("Indexed %d chunks (%d failed)\n", result.ChunkCount, result.FailedChunks)
		}
	},
}

func init() {
	rootCmd.AddCommand(processReportCmd)
	processReportCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
	processReportCmd.Flags().String("code", "", "security code of the report")
	processReportCmd.Flags().String("profile", "", "prompt profile for extraction")
	processReportCmd.Flags().Bool("index", false, "index the document after processing")
}
