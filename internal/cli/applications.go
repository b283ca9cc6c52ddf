package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "Inspect and advance placement applications",
}

var applicationsStatusCmd = &cobra.Command{
	Use:   "status <application-id> <to-status>",
	Short: "Move an application to a new workflow status",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runApplicationsStatus(cmd, args[0], args[1])
	},
}

var applicationsHistoryCmd = &cobra.Command{
	Use:   "history <application-id>",
	Short: "Print an application's status history, oldest first",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runApplicationsHistory(args[0])
	},
}

func init() {
	rootCmd.AddCommand(applicationsCmd)
	applicationsCmd.AddCommand(applicationsStatusCmd)
	applicationsCmd.AddCommand(applicationsHistoryCmd)

	applicationsStatusCmd.Flags().String("notes", "", "note recorded on the history row")
}

func runApplicationsStatus(cmd *cobra.Command, rawID, rawStatus string) {
	rt := newRuntime()
	defer rt.close()

	id, err := common.ParseUUID(rawID)
	if err != nil {
		rt.logger.Fatal("invalid application id", zap.Error(err))
	}
	notes, _ := cmd.Flags().GetString("notes")

	updated, err := rt.applications.Transition(context.Background(), policy.Service(), id, workflow.Status(rawStatus), notes)
	if err != nil {
		rt.logger.Fatal("status change failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(updated, "", "  ")
	fmt.Println(string(pretty))
}

func runApplicationsHistory(rawID string) {
	rt := newRuntime()
	defer rt.close()

	id, err := common.ParseUUID(rawID)
	if err != nil {
		rt.logger.Fatal("invalid application id", zap.Error(err))
	}

	history, err := rt.applications.History(context.Background(), policy.Service(), id)
	if err != nil {
		rt.logger.Fatal("loading history failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(history, "", "  ")
	fmt.Println(string(pretty))
}
