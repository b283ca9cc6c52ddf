package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/app"
	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/interview"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

var interviewsCmd = &cobra.Command{
	Use:   "interviews",
	Short: "Manage interview selections on behalf of school accounts",
}

var interviewsSelectCmd = &cobra.Command{
	Use:   "select",
	Short: "Shortlist a teacher for interview",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterviewsSelect(cmd)
	},
}

var interviewsStatusCmd = &cobra.Command{
	Use:   "status <selection-id> <to-status>",
	Short: "Move a selection through the interview pipeline",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runInterviewsStatus(cmd, args[0], args[1])
	},
}

var interviewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List selections for a school account or a teacher",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterviewsList(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewsCmd)
	interviewsCmd.AddCommand(interviewsSelectCmd)
	interviewsCmd.AddCommand(interviewsStatusCmd)
	interviewsCmd.AddCommand(interviewsListCmd)

	interviewsSelectCmd.Flags().String("account", "", "school account id doing the selecting")
	interviewsSelectCmd.Flags().String("teacher", "", "teacher id being shortlisted")
	interviewsSelectCmd.Flags().String("job", "", "optional job id the selection is for")
	interviewsSelectCmd.Flags().String("notes", "", "note recorded on the selection")
	interviewsSelectCmd.MarkFlagRequired("account")
	interviewsSelectCmd.MarkFlagRequired("teacher")

	interviewsStatusCmd.Flags().String("notes", "", "note recorded with the status change")

	interviewsListCmd.Flags().String("account", "", "list selections made by this school account")
	interviewsListCmd.Flags().String("teacher", "", "list selections naming this teacher")
}

func runInterviewsSelect(cmd *cobra.Command) {
	rt := newRuntime()
	defer rt.close()

	in := app.SelectInput{}
	var err error
	rawAccount, _ := cmd.Flags().GetString("account")
	if in.SchoolAccountID, err = common.ParseUUID(rawAccount); err != nil {
		rt.logger.Fatal("invalid account id", zap.Error(err))
	}
	rawTeacher, _ := cmd.Flags().GetString("teacher")
	if in.TeacherID, err = common.ParseUUID(rawTeacher); err != nil {
		rt.logger.Fatal("invalid teacher id", zap.Error(err))
	}
	if rawJob, _ := cmd.Flags().GetString("job"); rawJob != "" {
		jobID, err := common.ParseUUID(rawJob)
		if err != nil {
			rt.logger.Fatal("invalid job id", zap.Error(err))
		}
		in.JobID = &jobID
	}
	in.Notes, _ = cmd.Flags().GetString("notes")

	created, err := rt.interviews.Select(context.Background(), policy.Service(), in)
	if err != nil {
		rt.logger.Fatal("selection failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(created, "", "  ")
	fmt.Println(string(pretty))
}

func runInterviewsStatus(cmd *cobra.Command, rawID, rawStatus string) {
	rt := newRuntime()
	defer rt.close()

	id, err := common.ParseUUID(rawID)
	if err != nil {
		rt.logger.Fatal("invalid selection id", zap.Error(err))
	}
	notes, _ := cmd.Flags().GetString("notes")

	updated, err := rt.interviews.UpdateStatus(context.Background(), policy.Service(), id, interview.Status(rawStatus), notes)
	if err != nil {
		rt.logger.Fatal("status change failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(updated, "", "  ")
	fmt.Println(string(pretty))
}

func runInterviewsList(cmd *cobra.Command) {
	rt := newRuntime()
	defer rt.close()

	rawAccount, _ := cmd.Flags().GetString("account")
	rawTeacher, _ := cmd.Flags().GetString("teacher")

	var selections []interview.Selection
	var err error
	switch {
	case rawAccount != "":
		var accountID common.UUID
		if accountID, err = common.ParseUUID(rawAccount); err != nil {
			rt.logger.Fatal("invalid account id", zap.Error(err))
		}
		selections, err = rt.interviews.ListBySchoolAccount(context.Background(), policy.Service(), accountID)
	case rawTeacher != "":
		var teacherID common.UUID
		if teacherID, err = common.ParseUUID(rawTeacher); err != nil {
			rt.logger.Fatal("invalid teacher id", zap.Error(err))
		}
		selections, err = rt.interviews.ListByTeacher(context.Background(), policy.Service(), teacherID)
	default:
		rt.logger.Fatal("either --account or --teacher is required")
	}
	if err != nil {
		rt.logger.Fatal("listing selections failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(selections, "", "  ")
	fmt.Println(string(pretty))
}
