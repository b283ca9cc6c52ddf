package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/domain/job"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

var importCmd = &cobra.Command{
	Use:   "import <postings.json>",
	Short: "Upsert a batch of externally sourced job postings",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runImport(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("source", "", "source name applied to postings that do not carry one")
	importCmd.Flags().Bool("activate", true, "mark imported postings as active")
}

func runImport(cmd *cobra.Command, filename string) {
	rt := newRuntime()
	defer rt.close()

	raw, err := os.ReadFile(filename)
	if err != nil {
		rt.logger.Fatal("reading postings file", zap.Error(err))
	}

	var postings []job.Job
	if err := json.Unmarshal(raw, &postings); err != nil {
		rt.logger.Fatal("parsing postings file", zap.Error(err))
	}

	source, _ := cmd.Flags().GetString("source")
	activate, _ := cmd.Flags().GetBool("activate")
	for i := range postings {
		if postings[i].Source == "" {
			postings[i].Source = source
		}
		if activate {
			postings[i].IsActive = true
		}
	}

	rt.logger.Info("starting job import",
		zap.String("file", filename),
		zap.Int("postings", len(postings)),
	)

	summary, err := rt.importer.Import(context.Background(), policy.Service(), postings)
	if err != nil {
		rt.logger.Fatal("job import failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(pretty))

	if len(summary.Errors) > 0 {
		os.Exit(1)
	}
}
