package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/app"
	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score every active teacher against every active school and posting",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Float64("min-score", -1, "only persist pairs at or above this score (overrides MATCH_MIN_SCORE)")
	matchCmd.Flags().StringSlice("teacher", nil, "limit the run to these teacher ids")
	matchCmd.Flags().StringSlice("school", nil, "limit the run to these school ids")
	matchCmd.Flags().StringSlice("job", nil, "limit the run to these job ids")
}

func runMatch(cmd *cobra.Command) {
	rt := newRuntime()
	defer rt.close()

	if minScore, _ := cmd.Flags().GetFloat64("min-score"); minScore >= 0 {
		rt.matching.WithMinScore(minScore)
	}

	scope, err := matchScope(cmd)
	if err != nil {
		rt.logger.Fatal("invalid scope", zap.Error(err))
	}

	rt.logger.Info("starting matching run", zap.String("version", version))

	summary, err := rt.matching.Run(context.Background(), policy.Service(), scope)
	if err != nil {
		rt.logger.Fatal("matching run failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(pretty))

	if len(summary.Errors) > 0 {
		os.Exit(1)
	}
}

func matchScope(cmd *cobra.Command) (app.Scope, error) {
	var scope app.Scope
	var err error
	teachers, _ := cmd.Flags().GetStringSlice("teacher")
	if scope.TeacherIDs, err = parseIDs(teachers); err != nil {
		return scope, err
	}
	schools, _ := cmd.Flags().GetStringSlice("school")
	if scope.SchoolIDs, err = parseIDs(schools); err != nil {
		return scope, err
	}
	jobs, _ := cmd.Flags().GetStringSlice("job")
	if scope.JobIDs, err = parseIDs(jobs); err != nil {
		return scope, err
	}
	return scope, nil
}

func parseIDs(raw []string) ([]common.UUID, error) {
	var ids []common.UUID
	for _, r := range raw {
		id, err := common.ParseUUID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
