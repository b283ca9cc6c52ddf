package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/app"
	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

var teachersCmd = &cobra.Command{
	Use:   "teachers",
	Short: "Manage teacher profiles",
}

var teachersRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a teacher profile in pending status",
	Run: func(cmd *cobra.Command, _ []string) {
		runTeachersRegister(cmd)
	},
}

var teachersShowCmd = &cobra.Command{
	Use:   "show <teacher-id>",
	Short: "Print a teacher profile",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runTeachersShow(args[0])
	},
}

var teachersBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List active teacher profiles",
	Run: func(_ *cobra.Command, _ []string) {
		runTeachersBrowse()
	},
}

func init() {
	rootCmd.AddCommand(teachersCmd)
	teachersCmd.AddCommand(teachersRegisterCmd)
	teachersCmd.AddCommand(teachersShowCmd)
	teachersCmd.AddCommand(teachersBrowseCmd)

	teachersRegisterCmd.Flags().String("first-name", "", "first name")
	teachersRegisterCmd.Flags().String("last-name", "", "last name")
	teachersRegisterCmd.Flags().String("email", "", "email address")
	teachersRegisterCmd.Flags().String("currency", "", "preferred currency (defaults to USD)")
	teachersRegisterCmd.MarkFlagRequired("first-name")
	teachersRegisterCmd.MarkFlagRequired("last-name")
	teachersRegisterCmd.MarkFlagRequired("email")
}

func runTeachersRegister(cmd *cobra.Command) {
	rt := newRuntime()
	defer rt.close()

	var in app.RegisterTeacherInput
	in.FirstName, _ = cmd.Flags().GetString("first-name")
	in.LastName, _ = cmd.Flags().GetString("last-name")
	in.Email, _ = cmd.Flags().GetString("email")
	in.Currency, _ = cmd.Flags().GetString("currency")

	created, err := rt.teachers.Register(context.Background(), in)
	if err != nil {
		rt.logger.Fatal("registration failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(created, "", "  ")
	fmt.Println(string(pretty))
}

func runTeachersShow(rawID string) {
	rt := newRuntime()
	defer rt.close()

	id, err := common.ParseUUID(rawID)
	if err != nil {
		rt.logger.Fatal("invalid teacher id", zap.Error(err))
	}

	t, err := rt.teachers.Get(context.Background(), policy.Service(), id)
	if err != nil {
		rt.logger.Fatal("loading teacher failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(t, "", "  ")
	fmt.Println(string(pretty))
}

func runTeachersBrowse() {
	rt := newRuntime()
	defer rt.close()

	teachers, err := rt.teachers.Browse(context.Background(), policy.Service())
	if err != nil {
		rt.logger.Fatal("listing teachers failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(teachers, "", "  ")
	fmt.Println(string(pretty))
}
