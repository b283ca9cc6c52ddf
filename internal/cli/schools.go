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

var schoolsCmd = &cobra.Command{
	Use:   "schools",
	Short: "Manage school accounts",
}

var schoolsRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a school account",
	Run: func(cmd *cobra.Command, _ []string) {
		runSchoolsRegister(cmd)
	},
}

var schoolsShowCmd = &cobra.Command{
	Use:   "show <account-id>",
	Short: "Print a school account",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runSchoolsShow(args[0])
	},
}

func init() {
	rootCmd.AddCommand(schoolsCmd)
	schoolsCmd.AddCommand(schoolsRegisterCmd)
	schoolsCmd.AddCommand(schoolsShowCmd)

	schoolsRegisterCmd.Flags().String("name", "", "school name")
	schoolsRegisterCmd.Flags().String("email", "", "contact email")
	schoolsRegisterCmd.Flags().String("contact", "", "contact person")
	schoolsRegisterCmd.Flags().String("city", "", "city")
	schoolsRegisterCmd.Flags().String("province", "", "province")
	schoolsRegisterCmd.Flags().String("currency", "", "billing currency (defaults to USD)")
	schoolsRegisterCmd.MarkFlagRequired("name")
	schoolsRegisterCmd.MarkFlagRequired("email")
}

func runSchoolsRegister(cmd *cobra.Command) {
	rt := newRuntime()
	defer rt.close()

	var in app.RegisterAccountInput
	in.SchoolName, _ = cmd.Flags().GetString("name")
	in.Email, _ = cmd.Flags().GetString("email")
	in.ContactName, _ = cmd.Flags().GetString("contact")
	in.City, _ = cmd.Flags().GetString("city")
	in.Province, _ = cmd.Flags().GetString("province")
	in.Currency, _ = cmd.Flags().GetString("currency")

	created, err := rt.schools.RegisterAccount(context.Background(), in)
	if err != nil {
		rt.logger.Fatal("registration failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(created, "", "  ")
	fmt.Println(string(pretty))
}

func runSchoolsShow(rawID string) {
	rt := newRuntime()
	defer rt.close()

	id, err := common.ParseUUID(rawID)
	if err != nil {
		rt.logger.Fatal("invalid account id", zap.Error(err))
	}

	account, err := rt.schools.GetAccount(context.Background(), policy.Service(), id)
	if err != nil {
		rt.logger.Fatal("loading account failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(account, "", "  ")
	fmt.Println(string(pretty))
}
