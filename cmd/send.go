package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/defect-pipeline/batchsend/internal/batch"
	"github.com/defect-pipeline/batchsend/internal/queue"
	"github.com/defect-pipeline/batchsend/internal/sender"
	"github.com/spf13/cobra"
)

var (
	sendBatchID   string
	sendSource    = batch.SourceJira
	sendTickets   int
	sendTransport string
	sendDryRun    bool
)

// newPublisher is swapped out in tests.
var newPublisher = queue.New

func runSend(cmd *cobra.Command, args []string) error {
	if sendTickets < 0 {
		return fmt.Errorf("--tickets must not be negative (got %d)", sendTickets)
	}

	if err := loadConfig(sendTransport); err != nil {
		return err
	}

	batchID := sendBatchID
	if batchID == "" {
		batchID = batch.DefaultBatchID(time.Now())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher, err := newPublisher(ctx, appConfig)
	if err != nil {
		return fmt.Errorf("creating %s publisher: %w", appConfig.Transport, err)
	}
	defer publisher.Close()

	s := sender.New(publisher, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
	_, err = s.Send(ctx, sender.Request{
		BatchID:      batchID,
		SourceSystem: sendSource,
		TicketCount:  sendTickets,
		DryRun:       sendDryRun,
	})
	return err
}

func init() {
	rootCmd.Flags().StringVar(&sendBatchID, "batch-id", "", "batch id (default: batch-YYYYMMDD-HHMMSS)")
	rootCmd.Flags().Var(&sendSource, "source-system", "source system: JIRA, ServiceNow or GitHub")
	rootCmd.Flags().IntVar(&sendTickets, "tickets", 3, "number of tickets to send")
	rootCmd.Flags().StringVar(&sendTransport, "transport", "", "override the configured transport (sqs, kafka, http)")
	rootCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "print the batch message without publishing")
}
