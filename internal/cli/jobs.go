package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect job postings and interest submissions",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the public board of active postings",
	Run: func(_ *cobra.Command, _ []string) {
		runJobsList()
	},
}

var jobsInterestsCmd = &cobra.Command{
	Use:   "interests <job-id>",
	Short: "Print interest submissions for a posting",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runJobsInterests(args[0])
	},
}

var jobsDeactivateCmd = &cobra.Command{
	Use:   "deactivate <job-id>",
	Short: "Hide a posting from matching and the public board",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runJobsDeactivate(args[0])
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsInterestsCmd)
	jobsCmd.AddCommand(jobsDeactivateCmd)
}

func runJobsList() {
	rt := newRuntime()
	defer rt.close()

	postings, err := rt.jobs.ListActive(context.Background(), policy.Anonymous())
	if err != nil {
		rt.logger.Fatal("listing postings failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(postings, "", "  ")
	fmt.Println(string(pretty))
}

func runJobsInterests(rawID string) {
	rt := newRuntime()
	defer rt.close()

	id, err := common.ParseUUID(rawID)
	if err != nil {
		rt.logger.Fatal("invalid job id", zap.Error(err))
	}

	interests, err := rt.jobs.ListInterests(context.Background(), policy.Service(), id)
	if err != nil {
		rt.logger.Fatal("listing interests failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(interests, "", "  ")
	fmt.Println(string(pretty))
}

func runJobsDeactivate(rawID string) {
	rt := newRuntime()
	defer rt.close()

	id, err := common.ParseUUID(rawID)
	if err != nil {
		rt.logger.Fatal("invalid job id", zap.Error(err))
	}

	if err := rt.jobs.DeactivatePosting(context.Background(), policy.Service(), id); err != nil {
		rt.logger.Fatal("deactivation failed", zap.Error(err))
	}

	rt.logger.Info("posting deactivated", zap.String("job_id", id.String()))
}
