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
	"github.com/JoeYatesss/educonnect-api/internal/domain/payment"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Payment provider event handling",
}

var paymentsConfirmCmd = &cobra.Command{
	Use:   "confirm <event.json>",
	Short: "Apply a provider confirmation event, safe to re-deliver",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runPaymentsConfirm(args[0])
	},
}

func init() {
	rootCmd.AddCommand(paymentsCmd)
	paymentsCmd.AddCommand(paymentsConfirmCmd)
}

// confirmationFile is the on-disk shape of a provider event, one file per
// delivery. It mirrors the provider webhook payload.
type confirmationFile struct {
	TransactionID string `json:"transaction_id"`
	PayerKind     string `json:"payer_kind"`
	PayerID       string `json:"payer_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	Method        string `json:"method,omitempty"`
	ReceiptURL    string `json:"receipt_url,omitempty"`
}

func runPaymentsConfirm(filename string) {
	rt := newRuntime()
	defer rt.close()

	raw, err := os.ReadFile(filename)
	if err != nil {
		rt.logger.Fatal("reading event file", zap.Error(err))
	}

	var file confirmationFile
	if err := json.Unmarshal(raw, &file); err != nil {
		rt.logger.Fatal("parsing event file", zap.Error(err))
	}

	payerID, err := common.ParseUUID(file.PayerID)
	if err != nil {
		rt.logger.Fatal("invalid payer id", zap.Error(err))
	}

	result, err := rt.payments.HandleConfirmation(context.Background(), policy.Service(), app.ConfirmationEvent{
		TransactionID: file.TransactionID,
		Payer:         payment.Payer{Kind: payment.PayerKind(file.PayerKind), ID: payerID},
		Amount:        file.Amount,
		Currency:      file.Currency,
		Status:        payment.Status(file.Status),
		Method:        file.Method,
		ReceiptURL:    file.ReceiptURL,
	})
	if err != nil {
		rt.logger.Fatal("applying confirmation", zap.Error(err))
	}

	if result.AlreadyApplied {
		rt.logger.Info("confirmation already applied",
			zap.String("transaction_id", file.TransactionID),
			zap.String("status", string(result.Payment.Status)),
		)
	}

	pretty, _ := json.MarshalIndent(result.Payment, "", "  ")
	fmt.Println(string(pretty))
}
