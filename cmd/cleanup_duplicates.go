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

// cleanupDuplicatesCmd represents the cleanupDuplicates command
var cleanupDuplicatesCmd = &cobra.Command{
	Use:   "cleanup-duplicates",
	Short: "Remove stale duplicate documents from the store",
	Long: `Scans the document store for security codes holding more than one
record and removes everything except the most recently updated one.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		application, err := newApp(configPath)
		if err != nil {
			log.Fatalf("Failed to initialize application: %v", err)
		}

		removed, err := application.documents.CleanupDuplicates(context.Background())
		if err != nil {
			log.Fatalf("Failed to clean up duplicates: %v", err)
		}
		fmt.Printf("Removed %d stale documents\n", removed)
	},
}

func init() {
	rootCmd.AddCommand(cleanupDuplicatesCmd)
	cleanupDuplicatesCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
